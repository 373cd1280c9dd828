package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ughe/tigereval/evaluate"
	"github.com/ughe/tigereval/ocr"
	"github.com/ughe/tigereval/reference"
)

// docID is the reference key for a result: the scanned file name, or the
// result file name with its ".<service>.json" suffix removed.
func docID(result *ocr.Result, filename string) string {
	if result.FileName != "" {
		return result.FileName
	}
	name := strings.TrimSuffix(filepath.Base(filename), ".json")
	if result.Service != "" {
		name = strings.TrimSuffix(name, "."+strings.ToLower(result.Service))
	}
	return name
}

func evalCommand(w io.Writer, refs reference.Dataset, filenames []string, pdfFilename string, asJSON bool) error {
	reports := make([]*evaluate.Report, 0, len(filenames))
	for _, f := range filenames {
		result, err := ocr.LoadResult(f)
		if err != nil {
			return err
		}
		reports = append(reports, evaluate.Evaluate(result, refs.ForDocument(docID(result, f))))
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(reports); err != nil {
			return err
		}
	} else {
		for i, r := range reports {
			if i > 0 {
				fmt.Fprintln(w)
			}
			if err := evaluate.WriteText(w, r); err != nil {
				return err
			}
		}
	}

	if pdfFilename == "" {
		return nil
	}
	f, err := os.Create(pdfFilename)
	if err != nil {
		return err
	}
	if err := evaluate.WritePDF(f, reports...); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", pdfFilename, err)
	}
	return f.Close()
}

func buildEvalCmd() *cobra.Command {
	var (
		refFilename string
		pdfFilename string
		asJSON      bool
	)
	cmd := &cobra.Command{
		Use:   "eval [--reference reference.json] [--pdf report.pdf] result.json...",
		Short: "Score OCR results against reference transcriptions",
		Long: `Score saved OCR results against a reference dataset.

Results are matched to references by file name. A reference without a
question_id is compared with every segment joined by a single space;
otherwise each question is compared with its own reference. Questions
without a reference are listed but not scored.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if refFilename == "" {
				refFilename = cfg.Reference
			}
			refs, err := reference.Load(refFilename)
			if err != nil {
				return err
			}
			return evalCommand(cmd.OutOrStdout(), refs, args, pdfFilename, asJSON)
		},
	}
	cmd.Flags().StringVarP(&refFilename, "reference", "r", "", "Reference dataset (default from config)")
	cmd.Flags().StringVar(&pdfFilename, "pdf", "", "Also write a PDF report")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print reports as JSON")
	return cmd
}
