package markdown

import (
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		contains []string
		excludes []string
	}{
		{
			name:     "heading and bullet",
			source:   "### 1. Diagnosis\n- x",
			contains: []string{"<h3>1. Diagnosis</h3>", "<li>x</li>"},
		},
		{
			name:     "strong",
			source:   "**ok**",
			contains: []string{"<strong>ok</strong>"},
		},
		{
			name:     "fenced code",
			source:   "```go\nfmt.Println(1 < 2)\n```",
			contains: []string{`<pre><code class="language-go">`, "fmt.Println(1 &lt; 2)"},
		},
		{
			name:     "table",
			source:   "| Drug | Dose |\n|---|---|\n| Ibuprofen | 200mg |",
			contains: []string{"<table>", "<th>Drug</th>", "<td>Ibuprofen</td>"},
		},
		{
			name:     "raw html dropped",
			source:   "<script>alert(1)</script>\n\ntext",
			contains: []string{"<p>text</p>"},
			excludes: []string{"<script>"},
		},
	}

	r := NewRenderer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html, err := r.Render(tt.source)
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			out := string(html)
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("output %q does not contain %q", out, want)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(out, bad) {
					t.Errorf("output %q should not contain %q", out, bad)
				}
			}
		})
	}
}
