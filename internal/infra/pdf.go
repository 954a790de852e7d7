package infra

// pdf.go: report rendering with go-pdf/fpdf.
// A4 document: title header, reporting period, AI narrative paragraphs,
// highlight bullets, and a key-figures table.

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/asif1001/wareopes1-sub002/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateReportPDF renders a finished report to storagePath and returns the
// absolute path of the written file.
func GenerateReportPDF(rep *model.Report, ai *ReportAIResponse, figures map[string]any, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("report_%s.pdf", rep.ID)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(18, 18, 18)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 36

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, rep.Title, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	period := fmt.Sprintf("%s to %s  |  %s report", rep.FromDate.Format("02 Jan 2006"),
		rep.ToDate.Format("02 Jan 2006"), rep.Kind)
	pdf.CellFormat(contentW, 5, period, "", 1, "L", false, 0, "")
	pdf.Ln(3)
	pdf.Line(18, pdf.GetY(), pageW-18, pdf.GetY())
	pdf.Ln(4)

	// ── Narrative ────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(contentW, 5, ai.Narrative, "", "L", false)
	pdf.Ln(3)

	// ── Highlights ───────────────────────────────────────────────────────────
	if len(ai.Highlights) > 0 {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(contentW, 6, "Highlights", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		for _, h := range ai.Highlights {
			pdf.CellFormat(5, 5, "-", "", 0, "L", false, 0, "")
			pdf.MultiCell(contentW-5, 5, h, "", "L", false)
		}
		pdf.Ln(3)
	}

	// ── Key figures ──────────────────────────────────────────────────────────
	if len(figures) > 0 {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(contentW, 6, "Key figures", "", 1, "L", false, 0, "")

		keys := make([]string, 0, len(figures))
		for k := range figures {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		col1 := contentW * 0.6
		col2 := contentW * 0.4
		pdf.SetFont("Helvetica", "", 10)
		for _, k := range keys {
			pdf.CellFormat(col1, 6, k, "B", 0, "L", false, 0, "")
			pdf.CellFormat(col2, 6, fmt.Sprintf("%v", figures[k]), "B", 1, "R", false, 0, "")
		}
	}

	// ── Footer ───────────────────────────────────────────────────────────────
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(contentW, 4, "Generated by WareOpes", "", 1, "L", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
