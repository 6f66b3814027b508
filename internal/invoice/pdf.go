package invoice

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/pkg/errors"
)

// Renderer turns a Document into a downloadable byte stream.
type Renderer interface {
	Render(doc *Document) ([]byte, error)
}

// PDFRenderer renders the fixed-layout invoice PDF.
type PDFRenderer struct {
	CompanyName    string
	CompanyAddress string
}

func NewPDFRenderer(companyName, companyAddress string) *PDFRenderer {
	return &PDFRenderer{CompanyName: companyName, CompanyAddress: companyAddress}
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// Render lays out the invoice. It performs no pricing arithmetic: every
// amount comes pre-computed on the Document.
func (r *PDFRenderer) Render(doc *Document) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(120, 10, r.CompanyName)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "INVOICE", "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.MultiCell(90, 4.5, r.CompanyAddress, "", "L", false)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(95, 5, "Invoice No: "+doc.InvoiceNumber, "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 5, "Invoice Date: "+doc.InvoiceDate, "", 1, "R", false, 0, "")
	pdf.CellFormat(95, 5, "PO No: "+doc.PoNumber, "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 5, "Terms: "+doc.PaymentTerms, "", 1, "R", false, 0, "")
	pdf.CellFormat(95, 5, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 5, "Due Date: "+doc.DueDate, "", 1, "R", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 5, "Bill To", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	if doc.BillToCompany != "" {
		pdf.CellFormat(0, 5, doc.BillToCompany, "", 1, "L", false, 0, "")
	}
	if doc.BillToName != "" {
		pdf.CellFormat(0, 5, doc.BillToName, "", 1, "L", false, 0, "")
	}
	if doc.BillToAddress != "" {
		pdf.MultiCell(0, 5, doc.BillToAddress, "", "L", false)
	}
	pdf.Ln(6)

	// Line item table
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(95, 7, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 7, "Unit Price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(20, 7, "Qty", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 7, "Amount", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, line := range doc.Lines {
		pdf.CellFormat(95, 7, line.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, money(line.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(20, 7, fmt.Sprintf("%d", line.Qty), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, money(line.Amount), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	totalRow := func(label, value string, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 10)
		pdf.CellFormat(145, 6, label, "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, value, "", 1, "R", false, 0, "")
	}
	p := doc.Pricing
	totalRow("Subtotal", money(p.Subtotal), false)
	if p.DiscountAmount != 0 {
		totalRow("Discount", "-"+money(p.DiscountAmount), false)
	}
	if p.Shipping != 0 {
		totalRow("Shipping", money(p.Shipping), false)
	}
	totalRow("HST", money(p.TaxAmount), false)
	totalRow("Total", money(p.DisplayTotal), true)

	if doc.Notes != "" {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(0, 5, "Notes", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.MultiCell(0, 4.5, doc.Notes, "", "L", false)
	}
	if doc.Terms != "" {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(0, 5, "Terms", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.MultiCell(0, 4.5, doc.Terms, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(err, "render invoice pdf")
	}
	return buf.Bytes(), nil
}
