package utils

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var filenameStripRe = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// EncodeFileBase64 reads the whole file and returns its standard base64 encoding.
func EncodeFileBase64(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// DataURI builds "data:<mime>;base64,<data>".
func DataURI(mimeType, b64 string) string {
	return "data:" + mimeType + ";base64," + b64
}

// Extension returns the lowercased extension after the last dot, without the dot.
// Names with no dot have no extension.
func Extension(filename string) string {
	i := strings.LastIndex(filename, ".")
	if i < 0 {
		return ""
	}
	return strings.ToLower(filename[i+1:])
}

// SecureFilename returns a name that is safe to join to a directory. It follows
// werkzeug's secure_filename: NFKD fold to ASCII, path separators and whitespace
// to underscores, anything outside [A-Za-z0-9_.-] dropped, leading and trailing
// dots and underscores trimmed. The result may be empty.
func SecureFilename(filename string) string {
	filename = norm.NFKD.String(filename)

	var b strings.Builder
	for _, r := range filename {
		if r < utf8.RuneSelf {
			b.WriteRune(r)
		}
	}
	filename = b.String()

	filename = strings.ReplaceAll(filename, string(filepath.Separator), " ")
	if filepath.Separator != '/' {
		filename = strings.ReplaceAll(filename, "/", " ")
	}

	filename = strings.Join(strings.FieldsFunc(filename, isFilenameSpace), "_")
	filename = filenameStripRe.ReplaceAllString(filename, "")

	return strings.Trim(filename, "._")
}

// isFilenameSpace matches what Python's str.split treats as whitespace, which
// includes the ASCII file, group, record and unit separators.
func isFilenameSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}
