// Command analyze sends one local medical image for analysis and prints the
// markdown and HTML results.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/shriyashpachpande/medical-imaging-agent/internal/config"
	"github.com/shriyashpachpande/medical-imaging-agent/internal/domain"
	"github.com/shriyashpachpande/medical-imaging-agent/internal/llm"
	"github.com/shriyashpachpande/medical-imaging-agent/internal/service"
	"github.com/shriyashpachpande/medical-imaging-agent/pkg/logger"
	"github.com/shriyashpachpande/medical-imaging-agent/pkg/markdown"
)

type options struct {
	Image    string
	APIKey   string
	Model    string
	BaseURL  string
	LogLevel string
}

func main() {
	opts, err := parseOptions(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	log, err := logger.New(opts.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(context.Background(), opts, log, os.Stdout); err != nil {
		fmt.Fprintf(os.Stdout, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseOptions(args []string) (options, error) {
	flags := pflag.NewFlagSet("analyze", pflag.ContinueOnError)
	flags.String("image", "image.jpg", "path to the image (png, jpg, jpeg, dicom)")
	flags.String("api-key", "", "Groq API key (defaults to $GROQ_API_KEY)")
	flags.String("model", config.DefaultModel, "model identifier")
	flags.String("base-url", config.DefaultBaseURL, "OpenAI-compatible API base URL")
	flags.String("log-level", "error", "log level")

	if err := flags.Parse(args); err != nil {
		return options{}, err
	}

	v := viper.New()
	if err := v.BindPFlags(flags); err != nil {
		return options{}, err
	}
	_ = v.BindEnv("api-key", "GROQ_API_KEY")
	_ = v.BindEnv("model", "GROQ_MODEL")
	_ = v.BindEnv("base-url", "GROQ_BASE_URL")

	return options{
		Image:    v.GetString("image"),
		APIKey:   v.GetString("api-key"),
		Model:    v.GetString("model"),
		BaseURL:  v.GetString("base-url"),
		LogLevel: v.GetString("log-level"),
	}, nil
}

func run(ctx context.Context, opts options, log *zap.Logger, out io.Writer) error {
	cfg := &config.Config{
		Groq: config.GroqConfig{
			BaseURL: opts.BaseURL,
			Model:   opts.Model,
		},
		App: config.AppConfig{
			AllowedExtensions: service.DefaultAllowedExtensions,
		},
	}

	svc := service.NewAnalysisService(cfg, nil, llm.NewClient(cfg.Groq.BaseURL, log), markdown.NewRenderer(), log)

	analysis, err := svc.AnalyzeFile(ctx, opts.APIKey, opts.Image)
	var analysisErr *domain.AnalysisError
	switch {
	case errors.Is(err, domain.ErrMissingCredential):
		return errors.New("Groq API key is required (--api-key or GROQ_API_KEY)")
	case errors.Is(err, domain.ErrDisallowedExtension):
		return errors.New("Invalid file type. Allowed types: png, jpg, jpeg, dicom.")
	case errors.As(err, &analysisErr):
		return analysisErr.Err
	case err != nil:
		return err
	}

	fmt.Fprintln(out, "\n=== Analysis Result (Markdown) ===")
	fmt.Fprintln(out)
	fmt.Fprintln(out, analysis.Markdown)

	fmt.Fprintln(out, "\n=== Analysis Result (HTML) ===")
	fmt.Fprintln(out)
	fmt.Fprintln(out, analysis.HTML)

	return nil
}
