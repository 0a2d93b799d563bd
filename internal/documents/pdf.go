package documents

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/proposalhub-dev/proposalhub/internal/models"
)

// PDFRenderer renders the proposal template into an A4 PDF.
type PDFRenderer struct{}

func NewPDFRenderer() *PDFRenderer { return &PDFRenderer{} }

func (r *PDFRenderer) ContentType() string { return "application/pdf" }

func (r *PDFRenderer) Extension() string { return "pdf" }

func (r *PDFRenderer) Render(proposal *models.Proposal) ([]byte, error) {
	content, err := decodeContent(proposal)
	if err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(25, 25, 25)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(31, 71, 136)
	pdf.MultiCell(0, 10, proposal.Title, "", "C", false)
	pdf.Ln(8)

	for _, key := range orderedKeys(content) {
		r.writeSection(pdf, formatTitle(key), content[key], 0)
		pdf.Ln(4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}

	return buf.Bytes(), nil
}

func (r *PDFRenderer) writeSection(pdf *fpdf.Fpdf, title string, value interface{}, depth int) {
	switch depth {
	case 0:
		pdf.SetFont("Helvetica", "B", 14)
		pdf.SetTextColor(31, 71, 136)
	default:
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetTextColor(44, 90, 160)
	}

	pdf.MultiCell(0, 7, title, "", "L", false)
	pdf.Ln(1)

	switch v := value.(type) {
	case map[string]interface{}:
		for _, key := range sortedKeys(v) {
			switch child := v[key].(type) {
			case map[string]interface{}, []interface{}:
				r.writeSection(pdf, formatTitle(key), child, depth+1)
			default:
				pdf.SetFont("Helvetica", "B", 11)
				pdf.SetTextColor(0, 0, 0)
				pdf.Write(6, formatTitle(key)+": ")
				pdf.SetFont("Helvetica", "", 11)
				pdf.Write(6, fmt.Sprintf("%v", child))
				pdf.Ln(7)
			}
		}
	case []interface{}:
		pdf.SetFont("Helvetica", "", 11)
		pdf.SetTextColor(0, 0, 0)
		for _, item := range v {
			pdf.MultiCell(0, 6, fmt.Sprintf("  • %v", item), "", "L", false)
		}
	default:
		pdf.SetFont("Helvetica", "", 11)
		pdf.SetTextColor(0, 0, 0)
		pdf.MultiCell(0, 6, fmt.Sprintf("%v", v), "", "L", false)
	}
}
