// Command tigereval runs OCR over handwritten exam scans and scores the
// transcriptions against reference text with character and word error rates.
//
//	tigereval run --service gemini exam-01.jpg
//	tigereval eval --reference reference.json exam-01.jpg.gemini.json
//	tigereval editdist -c truth.txt ocr.txt
//	tigereval serve
//
// Configuration is read from ~/.tigereval/config.yaml unless --config is
// given. GEMINI_API_KEY supplies the Gemini key when the file does not.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ughe/tigereval/config"
)

var (
	configPath string
	cfg        *config.Config
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))
	if err := buildRootCmd().Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func buildRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "tigereval",
		Short:        "Evaluate OCR of handwritten exams with CER and WER",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path, required := configPath, true
			if path == "" {
				path, required = config.DefaultPath(), false
			}
			loaded, err := config.Load(path, required)
			if err != nil {
				return err
			}
			cfg = loaded
			slog.SetDefault(cfg.Logging.Logger(os.Stderr))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML configuration file (default ~/.tigereval/config.yaml)")

	root.AddCommand(
		buildRunCmd(),
		buildEditdistCmd(),
		buildEvalCmd(),
		buildExtractCmd(),
		buildServeCmd(),
	)
	return root
}
