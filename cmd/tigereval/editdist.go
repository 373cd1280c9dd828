package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ughe/tigereval/editdist"
)

func editdistCommand(w io.Writer, refFilename, hypFilename string, cer, wer bool) error {
	bufa, err := os.ReadFile(refFilename)
	if err != nil {
		return err
	}
	bufb, err := os.ReadFile(hypFilename)
	if err != nil {
		return err
	}
	switch {
	case cer:
		fmt.Fprintf(w, "%.5f\n", editdist.CER(string(bufa), string(bufb)))
	case wer:
		fmt.Fprintf(w, "%.5f\n", editdist.WER(string(bufa), string(bufb)))
	default:
		fmt.Fprintf(w, "%d\n", editdist.Levenshtein(bufa, bufb))
	}
	return nil
}

func buildEditdistCmd() *cobra.Command {
	var cer, wer bool
	cmd := &cobra.Command{
		Use:   "editdist [-c | -w] reference.txt hypothesis.txt",
		Short: "Calculate levenshtein distance or error rate of two text files",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editdistCommand(cmd.OutOrStdout(), args[0], args[1], cer, wer)
		},
	}
	cmd.Flags().BoolVarP(&cer, "cer", "c", false, "Output character error rate instead of levenshtein dist")
	cmd.Flags().BoolVarP(&wer, "wer", "w", false, "Output word error rate instead of levenshtein dist")
	cmd.MarkFlagsMutuallyExclusive("cer", "wer")
	return cmd
}
