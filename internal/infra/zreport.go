package infra

// zreport.go — Session closing report generation using go-pdf/fpdf.
// Renders an A5 back-office Z-report for a closed session:
//   - Register name, session id, open/close timestamps
//   - Opening / expected / counted balances and the variance with its case
//   - Recorded sales per payment method
//   - Non-empty closing denomination counts
//
// The output file is saved to storagePath/zreport_{sessionID}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"tillbook/internal/model"
	"tillbook/internal/money"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// GenerateClosingReportPDF writes the Z-report for a closed session and
// returns the absolute path of the generated file.
func GenerateClosingReportPDF(session *model.CashRegisterSession, registerName string, sales map[string]decimal.Decimal, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("zreport_%s.pdf", session.ID)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "Session Closing Report", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, registerName, "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 4, "Session "+session.ID.String(), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, "Opened  "+session.OpenedAt.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	if session.ClosedAt != nil {
		pdf.CellFormat(contentW, 4, "Closed  "+session.ClosedAt.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)
	pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
	pdf.Ln(2)

	// ── Reconciliation ───────────────────────────────────────────────────────
	labelW := contentW * 0.6
	valueW := contentW * 0.4

	row := func(label, value string, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 9)
		pdf.CellFormat(labelW, 6, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(valueW, 6, value, "", 1, "R", false, 0, "")
	}

	row("Opening balance", money.Format(session.OpeningBalance), false)
	if session.ExpectedClosing != nil {
		row("Expected closing", money.Format(*session.ExpectedClosing), false)
	}
	if session.CountedClosing != nil {
		row("Counted closing", money.Format(*session.CountedClosing), false)
	}
	if session.Variance != nil {
		label := "Variance"
		if session.Case != nil {
			label = fmt.Sprintf("Variance (%s)", *session.Case)
		}
		row(label, money.Format(*session.Variance), true)
	}

	// ── Sales per method ─────────────────────────────────────────────────────
	if len(sales) > 0 {
		pdf.Ln(2)
		pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(contentW, 6, "Recorded sales", "", 1, "L", false, 0, "")
		for _, method := range []string{"cash", "card", "wallet", "transfer"} {
			if amount, ok := sales[method]; ok && !amount.IsZero() {
				row(method, money.Format(amount), false)
			}
		}
	}

	// ── Closing count ────────────────────────────────────────────────────────
	if !session.ClosingCounts.IsZero() {
		pdf.Ln(2)
		pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(contentW, 6, "Closing drawer count", "", 1, "L", false, 0, "")
		if total, err := session.ClosingCounts.Total(); err == nil {
			row("Counted cash total", money.Format(total), false)
		}
	}

	if session.Notes != nil && *session.Notes != "" {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.MultiCell(contentW, 4, "Notes: "+*session.Notes, "", "L", false)
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
