// Package pdf renders payment report invoices with maroto.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"

	establishmentdomain "github.com/alpenstay/alpenstay/internal/establishment/domain"
	reportdomain "github.com/alpenstay/alpenstay/internal/paymentreport/domain"
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type InvoiceData struct {
	InvoiceNumber string
	IssueDate     string
	Period        string

	PlatformName    string
	PlatformAddress string

	BillToName    string
	BillToAddress string
	VATNumber     string

	Lines []InvoiceLine

	TotalTTC        string
	TotalHT         string
	TotalVAT        string
	TotalCommission string
	TotalOwner      string
	VATRateLabel    string
}

type InvoiceLine struct {
	Reference   string
	Date        string
	Description string
	Amount      string
}

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) RenderInvoice(ctx context.Context, data InvoiceData) (io.Reader, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(12, "Relevé de commissions", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(20,
		col.New(6).Add(
			text.New("Facture: "+data.InvoiceNumber, props.Text{Top: 0}),
			text.New("Date: "+data.IssueDate, props.Text{Top: 4}),
			text.New("Période: "+data.Period, props.Text{Top: 8}),
		),
		col.New(6),
	)

	m.AddRow(35,
		col.New(6).Add(
			text.New(data.PlatformName, props.Text{Style: fontstyle.Bold}),
			text.New(data.PlatformAddress, props.Text{Top: 5}),
		),
		col.New(6).Add(
			text.New("Facturé à", props.Text{Style: fontstyle.Bold}),
			text.New(data.BillToName, props.Text{Top: 5}),
			text.New(data.BillToAddress, props.Text{Top: 9}),
			text.New(data.VATNumber, props.Text{Top: 17}),
		),
	)

	m.AddRow(10,
		text.NewCol(3, "Référence", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Date", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(5, "Description", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Montant", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	for _, line := range data.Lines {
		m.AddRow(8,
			text.NewCol(3, line.Reference, props.Text{Size: 9}),
			text.NewCol(2, line.Date, props.Text{Size: 9}),
			text.NewCol(5, line.Description, props.Text{Size: 9}),
			text.NewCol(2, line.Amount, props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(10,
		col.New(7),
		text.NewCol(3, "Total TTC", props.Text{Size: 9}),
		text.NewCol(2, data.TotalTTC, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(10,
		col.New(7),
		text.NewCol(3, "Total HT ("+data.VATRateLabel+")", props.Text{Size: 9}),
		text.NewCol(2, data.TotalHT, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(10,
		col.New(7),
		text.NewCol(3, "TVA", props.Text{Size: 9}),
		text.NewCol(2, data.TotalVAT, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(10,
		col.New(7),
		text.NewCol(3, "Commission plateforme", props.Text{Size: 9}),
		text.NewCol(2, data.TotalCommission, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(10,
		col.New(7),
		text.NewCol(3, "Montant net exploitant", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, data.TotalOwner, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}

// BuildInvoice formats a report into renderable invoice data. Amounts are
// rounded here, at the presentation boundary only.
func BuildInvoice(
	report *reportdomain.Report,
	group reportdomain.EstablishmentGroup,
	invoiceNumber, issueDate, period string,
	vatRate float64,
) InvoiceData {
	data := InvoiceData{
		InvoiceNumber: invoiceNumber,
		IssueDate:     issueDate,
		Period:        period,

		PlatformName:    "AlpenStay SA",
		PlatformAddress: "Avenue de la Gare 10, 1003 Lausanne",

		BillToName:    billToName(group),
		BillToAddress: billToAddress(group.Billing),
		VATNumber:     group.Billing.VATNumber,

		TotalTTC:        chf(report.Summary.TotalAmount),
		TotalHT:         chf(report.Summary.TotalAmountHT),
		TotalVAT:        chf(report.Summary.TotalTVA),
		TotalCommission: chf(report.Summary.TotalCommission),
		TotalOwner:      chf(report.Summary.TotalOwnerAmount),
		VATRateLabel:    fmt.Sprintf("TVA %.1f%%", vatRate*100),
	}

	for _, record := range report.Bookings {
		description := string(record.BookingType)
		for _, detail := range record.PricingOptionsDetails {
			description += ", " + detail.Name
		}
		data.Lines = append(data.Lines, InvoiceLine{
			Reference:   record.Reference,
			Date:        record.BookingDate.Format("02.01.2006"),
			Description: description,
			Amount:      chf(record.FinalAmount),
		})
	}

	return data
}

func billToName(group reportdomain.EstablishmentGroup) string {
	if group.Billing.CompanyName != "" {
		return group.Billing.CompanyName
	}
	return group.Name
}

func billToAddress(billing establishmentdomain.BillingInfo) string {
	address := billing.Address
	if billing.PostalCode != "" || billing.City != "" {
		address += ", " + billing.PostalCode + " " + billing.City
	}
	if billing.Country != "" {
		address += ", " + billing.Country
	}
	return address
}

func chf(amount float64) string {
	return fmt.Sprintf("CHF %.2f", amount)
}
