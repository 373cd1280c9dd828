package evaluate

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/jung-kurt/gofpdf"
)

func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

// WriteText prints the report as an aligned table with rates in percent.
func WriteText(w io.Writer, r *Report) error {
	fmt.Fprintf(w, "document: %s\n", r.DocID)
	if !r.Matched {
		fmt.Fprintf(w, "no reference found\n")
		return nil
	}
	fmt.Fprintf(w, "mode:     %s\n\n", r.Mode)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "QUESTION\tCER\tWER\tDIST\tSUB\tINS\tDEL")
	for _, s := range r.Scores {
		if s.Skipped {
			fmt.Fprintf(tw, "%s\t-\t-\t-\t-\t-\t-\n", s.Label)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%d\n", s.Label, percent(s.CER), percent(s.WER),
			s.Distance, s.Substitutions, s.Insertions, s.Deletions)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\navg CER: %s  avg WER: %s  (%d scored, %d skipped)\n",
		percent(r.AvgCER), percent(r.AvgWER), r.Evaluated, r.Skipped())
	return err
}

// WritePDF renders one page per report: a summary followed by each scored
// segment with its ground truth and OCR output.
func WritePDF(w io.Writer, reports ...*Report) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("OCR evaluation", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	width := pageW - left - right

	for _, r := range reports {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 16)
		pdf.CellFormat(width, 10, tr(r.DocID), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		if !r.Matched {
			pdf.CellFormat(width, 7, "No reference found.", "", 1, "L", false, 0, "")
			continue
		}
		summary := fmt.Sprintf("Mode: %s   Avg CER: %s   Avg WER: %s   Scored: %d   Skipped: %d",
			r.Mode, percent(r.AvgCER), percent(r.AvgWER), r.Evaluated, r.Skipped())
		pdf.CellFormat(width, 7, summary, "", 1, "L", false, 0, "")
		pdf.Ln(3)

		pdf.SetFillColor(224, 231, 255)
		pdf.SetFont("Helvetica", "B", 10)
		cols := []float64{width * 0.3, width * 0.14, width * 0.14, width * 0.14, width * 0.28}
		for i, h := range []string{"Question", "CER", "WER", "Distance", "Sub / Ins / Del"} {
			pdf.CellFormat(cols[i], 7, h, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 10)
		for _, s := range r.Scores {
			row := []string{tr(s.Label), "-", "-", "-", "-"}
			if !s.Skipped {
				row = []string{tr(s.Label), percent(s.CER), percent(s.WER), fmt.Sprint(s.Distance),
					fmt.Sprintf("%d / %d / %d", s.Substitutions, s.Insertions, s.Deletions)}
			}
			for i, c := range row {
				pdf.CellFormat(cols[i], 6, c, "1", 0, "C", false, 0, "")
			}
			pdf.Ln(-1)
		}

		for _, s := range r.Scores {
			if s.Skipped {
				continue
			}
			pdf.Ln(4)
			pdf.SetFont("Helvetica", "B", 11)
			pdf.CellFormat(width, 7, tr(s.Label), "", 1, "L", false, 0, "")
			pdf.SetFont("Courier", "", 9)
			pdf.MultiCell(width, 4.5, tr("Ground truth: "+s.GroundTruth), "", "L", false)
			pdf.MultiCell(width, 4.5, tr("OCR output:   "+s.Hypothesis), "", "L", false)
		}
	}
	return pdf.Output(w)
}
