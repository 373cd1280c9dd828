package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ughe/tigereval/ocr"
)

func extractCommand(w io.Writer, filename string, stat, segments bool) error {
	result, err := ocr.LoadResult(filename)
	if err != nil {
		return err
	}

	if stat {
		// Human readable output
		fmt.Fprintf(w, "id:       %s\n", result.ID)
		fmt.Fprintf(w, "file:     %s\n", result.FileName)
		fmt.Fprintf(w, "algoid:   %s:%s\n", result.Service, result.Version)
		fmt.Fprintf(w, "millis:   %d\n", result.Duration)
		fmt.Fprintf(w, "date:     %s\n", result.Date)
		fmt.Fprintf(w, "segments: %d\n", len(result.Segments))
		fmt.Fprintf(w, "conf:     %.3f\n", result.Confidence())
	} else if segments {
		for _, s := range result.Segments {
			fmt.Fprintf(w, "%s\t%.2f\t%s\n", s.Label, s.Confidence, s.Text)
		}
	} else {
		fmt.Fprintf(w, "%s\n", result.Plaintext())
	}
	return nil
}

func buildExtractCmd() *cobra.Command {
	var stat, segments bool
	cmd := &cobra.Command{
		Use:   "extract [--stat | --segments] result.json",
		Short: "Extract metadata or plaintext from an OCR result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return extractCommand(cmd.OutOrStdout(), args[0], stat, segments)
		},
	}
	cmd.Flags().BoolVar(&stat, "stat", false, "Combined, human-readable summary of all metadata")
	cmd.Flags().BoolVar(&segments, "segments", false, "One line per question: label, confidence, text")
	cmd.MarkFlagsMutuallyExclusive("stat", "segments")
	return cmd
}
