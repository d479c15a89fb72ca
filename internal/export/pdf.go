package export

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"timed-quiz/internal/domain"
)

var (
	pdfHeader = []string{"No", "Cat", "Question", "Your", "Correct", "Result"}
	pdfWidths = []float64{12, 20, 70, 32, 32, 16}
)

const pdfLineHeight = 5.0

// PDF writes a one-table results document.
type PDF struct{}

func (PDF) Extension() string   { return "pdf" }
func (PDF) ContentType() string { return "application/pdf" }

func (PDF) Export(w io.Writer, report domain.Report) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Quiz Results", true)
	pdf.SetMargins(14, 10, 14)
	pdf.SetAutoPageBreak(false, 12)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, fmt.Sprintf("Quiz Results : %d / %d", report.Score, report.Total), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, tr("Name: "+report.Name), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, tr("Phone: "+report.Phone), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	writeHeader := func() {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetFillColor(41, 128, 185)
		pdf.SetTextColor(255, 255, 255)
		for i, h := range pdfHeader {
			pdf.CellFormat(pdfWidths[i], 7, h, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(0, 0, 0)
	}
	writeHeader()

	left, _, _, bottom := pdf.GetMargins()
	_, pageHeight := pdf.GetPageSize()
	for _, row := range report.Rows {
		cells := []string{
			fmt.Sprintf("Q%d", row.Number),
			row.Category,
			row.Question,
			row.Answer,
			row.Correct,
			resultMark(row.Passed),
		}
		lines := 1
		for i, c := range cells {
			if n := len(pdf.SplitLines([]byte(tr(c)), pdfWidths[i]-2)); n > lines {
				lines = n
			}
		}
		height := float64(lines) * pdfLineHeight
		if pdf.GetY()+height > pageHeight-bottom {
			pdf.AddPage()
			writeHeader()
		}

		x, y := pdf.GetXY()
		for i, c := range cells {
			pdf.Rect(x, y, pdfWidths[i], height, "D")
			pdf.SetXY(x, y)
			pdf.MultiCell(pdfWidths[i], pdfLineHeight, tr(c), "", "L", false)
			x += pdfWidths[i]
		}
		pdf.SetXY(left, y+height)
	}

	return pdf.Output(w)
}

func resultMark(passed bool) string {
	if passed {
		return "PASS"
	}
	return "FAIL"
}
