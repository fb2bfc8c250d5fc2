// Package pdf renders sale receipts with maroto.
package pdf

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// ReceiptItem is one printed line of the receipt.
type ReceiptItem struct {
	Description string
	Quantity    int
	UnitPrice   float64
	LineTotal   float64
}

// ReceiptData carries everything the receipt template needs.
type ReceiptData struct {
	ShopName      string
	InvoiceNumber string
	Date          string
	PaymentMethod string
	CustomerName  string
	Items         []ReceiptItem
	Total         float64
}

// Receipt renders the sale as a PDF and returns the raw bytes.
func Receipt(data ReceiptData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).
		WithRightMargin(15).
		WithTopMargin(15).
		Build()
	m := maroto.New(cfg)

	m.AddRow(12, text.NewCol(12, data.ShopName, props.Text{Size: 16, Style: fontstyle.Bold, Align: align.Center}))
	m.AddRow(8, text.NewCol(12, "Sales receipt", props.Text{Size: 11, Align: align.Center}))
	m.AddRow(6,
		text.NewCol(6, "Receipt no: "+data.InvoiceNumber, props.Text{Size: 9}),
		text.NewCol(6, "Date: "+data.Date, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(6,
		text.NewCol(6, "Payment: "+data.PaymentMethod, props.Text{Size: 9}),
		text.NewCol(6, "Customer: "+data.CustomerName, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(4, line.NewCol(12))

	m.AddRow(7,
		text.NewCol(6, "Item", props.Text{Size: 9, Style: fontstyle.Bold}),
		text.NewCol(2, "Qty", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, "Unit", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, "Total", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
	)
	for _, it := range data.Items {
		m.AddRow(6,
			text.NewCol(6, it.Description, props.Text{Size: 9}),
			text.NewCol(2, fmt.Sprintf("%d", it.Quantity), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, fmt.Sprintf("%.2f", it.UnitPrice), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, fmt.Sprintf("%.2f", it.LineTotal), props.Text{Size: 9, Align: align.Right}),
		)
	}
	m.AddRow(4, line.NewCol(12))
	m.AddRow(8,
		text.NewCol(10, "Total", props.Text{Size: 11, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, fmt.Sprintf("%.2f", data.Total), props.Text{Size: 11, Style: fontstyle.Bold, Align: align.Right}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}
