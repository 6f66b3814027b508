package invoice

import (
	"github.com/dev-harshpatel/stoq/internal/domain"
	"github.com/dev-harshpatel/stoq/internal/pricing"
)

// DocumentLine is one printed invoice row.
type DocumentLine struct {
	Description string
	UnitPrice   float64
	Qty         int
	Amount      float64
}

// Document carries everything the renderer needs. All arithmetic is done
// here through internal/pricing; the renderer lays it out and does no math.
type Document struct {
	InvoiceNumber string
	PoNumber      string
	InvoiceDate   string
	DueDate       string
	PaymentTerms  string

	BillToName    string
	BillToCompany string
	BillToAddress string

	Lines []DocumentLine

	Pricing pricing.Breakdown

	Notes string
	Terms string

	Confirmed bool
}

// BuildDocument assembles the printable invoice for an order. The viewer
// flag applies the same visibility rule as the order detail endpoint: an
// unconfirmed invoice rendered for a customer shows subtotal and tax only.
func BuildDocument(o *domain.Order, items []domain.OrderItem, cust *domain.Customer, isAdmin bool) *Document {
	doc := &Document{
		InvoiceNumber: o.InvoiceNumber,
		PoNumber:      o.PoNumber,
		DueDate:       o.DueDate,
		PaymentTerms:  o.PaymentTerms,
		Notes:         o.InvoiceNotes,
		Terms:         o.InvoiceTerms,
		Confirmed:     o.InvoiceConfirmed,
	}
	if o.InvoiceDate != nil {
		doc.InvoiceDate = o.InvoiceDate.Format(pricing.DueDateLayout)
	}
	if cust != nil {
		doc.BillToName = cust.Realname
		doc.BillToCompany = cust.Company
		doc.BillToAddress = cust.Address
	}

	for _, it := range items {
		desc := it.DeviceName
		if it.Storage != "" {
			desc += " " + it.Storage
		}
		if it.Grade != "" {
			desc += " (Grade " + it.Grade + ")"
		}
		doc.Lines = append(doc.Lines, DocumentLine{
			Description: desc,
			UnitPrice:   it.UnitPrice,
			Qty:         it.Qty,
			Amount:      it.LineTotal,
		})
	}

	doc.Pricing = pricing.CalculateForViewer(pricing.Input{
		Subtotal:      o.Subtotal,
		DiscountType:  o.DiscountType,
		DiscountValue: o.DiscountValue,
		Shipping:      o.ShippingAmount,
		TaxRate:       o.TaxRate,
	}, o.InvoiceConfirmed, isAdmin)

	return doc
}
