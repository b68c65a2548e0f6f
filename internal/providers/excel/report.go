// Package excel renders the payment report as an xlsx workbook.
package excel

import (
	"bytes"
	"context"
	"fmt"
	"io"

	reportdomain "github.com/alpenstay/alpenstay/internal/paymentreport/domain"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Paiements"

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderReport writes one row per booking plus a summary block.
func (r *Renderer) RenderReport(ctx context.Context, report *reportdomain.Report) (io.Reader, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}

	headers := []string{
		"Référence", "Date", "Type", "Hébergement", "Options", "Taxe de séjour",
		"Montant TTC", "Montant HT", "TVA", "Commission", "Montant exploitant", "Frais Stripe",
	}
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	endHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	f.SetCellStyle(sheetName, "A1", endHeader, headerStyle)

	for row, record := range report.Bookings {
		values := []interface{}{
			record.Reference,
			record.BookingDate.Format("02.01.2006"),
			string(record.BookingType),
			record.BaseRoomCost,
			record.PricingOptionsTotal,
			record.TouristTaxTotal,
			record.FinalAmount,
			record.AmountHT,
			record.TVA,
			record.PlatformFees.TotalFees,
			record.OwnerAmount,
			record.StripeFee,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	summaryRow := len(report.Bookings) + 3
	summary := [][2]interface{}{
		{"Réservations", report.Summary.BookingCount},
		{"Total TTC", report.Summary.TotalAmount},
		{"Total HT", report.Summary.TotalAmountHT},
		{"Total TVA", report.Summary.TotalTVA},
		{"Total commissions", report.Summary.TotalCommission},
		{"Total exploitants", report.Summary.TotalOwnerAmount},
		{"Total taxes de séjour", report.Summary.TotalTouristTax},
		{"Total options", report.Summary.TotalPricingOptions},
		{"Total frais Stripe", report.Summary.TotalStripeFees},
	}
	if report.Summary.AccountFees != nil {
		label := "Frais de compte"
		if report.Summary.AccountFees.Degraded {
			label = "Frais de compte (incomplets)"
		}
		summary = append(summary, [2]interface{}{label, report.Summary.AccountFees.Amount})
	}

	for i, entry := range summary {
		labelCell, _ := excelize.CoordinatesToCellName(1, summaryRow+i)
		valueCell, _ := excelize.CoordinatesToCellName(2, summaryRow+i)
		f.SetCellValue(sheetName, labelCell, entry[0])
		f.SetCellValue(sheetName, valueCell, entry[1])
	}

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return &buf, nil
}
