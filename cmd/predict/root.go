package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spacesedan/sentidash/config"
	"github.com/spacesedan/sentidash/internal/artifacts"
	"github.com/spacesedan/sentidash/internal/logging"
	"github.com/spacesedan/sentidash/internal/pipeline"
	"github.com/spacesedan/sentidash/internal/sentiment"
)

type predictOptions struct {
	manifest string
	baseline bool
	verbose  bool
}

func newRootCmd() *cobra.Command {
	opts := &predictOptions{}

	cmd := &cobra.Command{
		Use:   "predict [text...]",
		Short: "Print each classifier's sentiment for a piece of text",
		Long: `Load the model set named by the manifest and print one line per classifier,
exactly as the web form would show it. Text is taken from the arguments, or
from stdin when no arguments are given.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPredict(cmd, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.manifest, "manifest", "m", "", "model manifest (default $MODEL_MANIFEST or config/models.yaml)")
	cmd.Flags().BoolVar(&opts.baseline, "baseline", false, "also print the VADER lexicon baseline")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log model loading to stderr")
	return cmd
}

func runPredict(cmd *cobra.Command, opts *predictOptions, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if opts.verbose {
		level = cfg.LogLevel
	}
	slog.SetDefault(logging.NewLogger(cmd.ErrOrStderr(), level))

	manifest := cfg.ModelManifest
	if opts.manifest != "" {
		manifest = opts.manifest
	}

	text, err := readText(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	p, err := artifacts.LoadPipeline(cmd.Context(), manifest, artifacts.OptionsFromConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to load models: %w", err)
	}

	return writePrediction(cmd.OutOrStdout(), p, text, opts.baseline)
}

func readText(stdin io.Reader, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	text := strings.TrimRight(string(data), "\r\n")
	if text == "" {
		return "", errors.New("no text given")
	}
	return text, nil
}

// writePrediction prints one line per output slot. A pipeline error is
// printed in the first slot like the form does, and also returned.
func writePrediction(w io.Writer, p *pipeline.Pipeline, text string, baseline bool) error {
	out := p.Analyze(text, 1)
	for _, line := range out.Outputs() {
		fmt.Fprintln(w, line)
	}
	if baseline {
		b := sentiment.AnalyzeWithVADER(text)
		fmt.Fprintf(w, "VADER Baseline: %s (%.4f)\n", b.Label, b.Score)
	}
	return out.Err
}
