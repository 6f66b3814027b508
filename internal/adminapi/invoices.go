package adminapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dev-harshpatel/stoq/internal/domain"
	"github.com/dev-harshpatel/stoq/internal/invoice"
	"github.com/dev-harshpatel/stoq/internal/pricing"
	"github.com/dev-harshpatel/stoq/internal/webserver"
	"github.com/labstack/echo/v4"
)

// Optional fields are pointers: absent means unchanged, present-but-empty
// clears the stored value.
type invoicePayload struct {
	InvoiceDate   string   `json:"invoice_date" validate:"omitempty,datetime=2006-01-02"`
	PaymentTerms  *string  `json:"payment_terms" validate:"omitempty,max=32"`
	PoNumber      string   `json:"po_number" validate:"omitempty,max=32"`
	DiscountType  *string  `json:"discount_type" validate:"omitempty,oneof=percentage fixed"`
	DiscountValue *float64 `json:"discount_value" validate:"omitempty,min=0"`
	Shipping      *float64 `json:"shipping_amount" validate:"omitempty,min=0"`
	TaxRate       *float64 `json:"tax_rate" validate:"omitempty,min=0"`
	Notes         *string  `json:"notes" validate:"omitempty,max=2000"`
	Terms         *string  `json:"terms" validate:"omitempty,max=2000"`
}

// registerInvoiceRoutes registers invoice lifecycle endpoints
func registerInvoiceRoutes() {
	webserver.ApiPUT("/orders/:id/invoice", saveInvoice)
	webserver.ApiPOST("/orders/:id/invoice/confirm", confirmInvoice)
	webserver.ApiGET("/orders/:id/invoice.pdf", downloadInvoicePDF)
}

// saveInvoice creates or edits the invoice draft on an approved order. The
// first save allocates the invoice number (and a PO number when none is
// supplied) and every save recomputes totals through the shared calculator.
func saveInvoice(c echo.Context) error {
	if err := adminOnly(c); err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	var payload invoicePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse invoice parameters", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	db := GetDB(c)
	var order domain.Order
	if err := db.Where("id = ?", id).First(&order).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Order not found", nil)
	}
	if err := invoice.CanEdit(&order); err != nil {
		return fail(c, http.StatusConflict, "INVOICE_LOCKED", err.Error(), nil)
	}

	appCtx := GetAppContext(c)

	invoiceDate := time.Now()
	if payload.InvoiceDate != "" {
		invoiceDate, _ = time.ParseInLocation("2006-01-02", payload.InvoiceDate, time.Local)
	} else if order.InvoiceDate != nil {
		invoiceDate = *order.InvoiceDate
	}
	order.InvoiceDate = &invoiceDate

	// First save allocates numbers; later edits keep them
	if order.InvoiceNumber == "" {
		alloc := invoice.NewAllocator(db)
		order.InvoiceNumber = alloc.NextInvoiceNumber(invoiceDate)
		if strings.TrimSpace(payload.PoNumber) == "" {
			order.PoNumber = alloc.NextPoNumber(invoiceDate)
		}
	}
	if strings.TrimSpace(payload.PoNumber) != "" {
		order.PoNumber = strings.TrimSpace(payload.PoNumber)
	}

	if payload.PaymentTerms != nil {
		order.PaymentTerms = *payload.PaymentTerms
	}
	// Clearing the terms reverts to the configured default
	if order.PaymentTerms == "" {
		order.PaymentTerms = appCtx.GetSettingsStringValue("order", "DefaultPaymentTerms")
	}
	order.DueDate = pricing.DueDateString(invoiceDate, order.PaymentTerms)

	if payload.DiscountType != nil {
		order.DiscountType = *payload.DiscountType
	}
	if payload.DiscountValue != nil {
		order.DiscountValue = *payload.DiscountValue
	}
	if payload.Shipping != nil {
		order.ShippingAmount = *payload.Shipping
	}
	if payload.TaxRate != nil {
		order.TaxRate = *payload.TaxRate
	}
	if payload.Notes != nil {
		order.InvoiceNotes = *payload.Notes
	}
	if payload.Terms != nil {
		order.InvoiceTerms = *payload.Terms
	}
	if order.InvoiceTerms == "" {
		order.InvoiceTerms = appCtx.GetSettingsStringValue("invoice", "DefaultTerms")
	}

	breakdown := pricing.Calculate(pricing.Input{
		Subtotal:      order.Subtotal,
		DiscountType:  order.DiscountType,
		DiscountValue: order.DiscountValue,
		Shipping:      order.ShippingAmount,
		TaxRate:       order.TaxRate,
	})
	order.TaxAmount = breakdown.TaxAmount
	order.TotalPrice = breakdown.Total
	order.UpdatedAt = time.Now()

	if err := db.Save(&order).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to save invoice", err.Error())
	}

	oprLog(c, "invoice.save", fmt.Sprintf("saved invoice %s for order %d", order.InvoiceNumber, order.ID))
	return ok(c, map[string]interface{}{
		"order":     order,
		"breakdown": breakdown,
		"state":     invoice.StateOf(&order),
	})
}

// confirmInvoice locks the invoice, unlocking customer download and full
// price visibility. One-way.
func confirmInvoice(c echo.Context) error {
	if err := adminOnly(c); err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}

	db := GetDB(c)
	var order domain.Order
	if err := db.Where("id = ?", id).First(&order).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Order not found", nil)
	}

	if err := invoice.Confirm(&order, time.Now()); err != nil {
		return fail(c, http.StatusConflict, "INVALID_STATE", err.Error(),
			map[string]interface{}{"state": invoice.StateOf(&order)})
	}
	order.UpdatedAt = time.Now()
	if err := db.Save(&order).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to confirm invoice", err.Error())
	}

	oprLog(c, "invoice.confirm", fmt.Sprintf("confirmed invoice %s for order %d", order.InvoiceNumber, order.ID))
	return ok(c, map[string]interface{}{
		"order": order,
		"state": invoice.StateOf(&order),
	})
}

// downloadInvoicePDF renders the invoice for an admin. Admins may download
// drafts; there is no confirmation gate on this route.
func downloadInvoicePDF(c echo.Context) error {
	if err := adminOnly(c); err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}

	db := GetDB(c)
	var order domain.Order
	if err := db.Where("id = ?", id).First(&order).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Order not found", nil)
	}
	if !invoice.CanDownloadPDF(&order, true) {
		return fail(c, http.StatusConflict, "NO_INVOICE", "Order has no invoice yet", nil)
	}

	var items []domain.OrderItem
	db.Where("order_id = ?", order.ID).Order("id").Find(&items)
	var cust domain.Customer
	db.Where("id = ?", order.CustomerId).First(&cust)

	appCtx := GetAppContext(c)
	doc := invoice.BuildDocument(&order, items, &cust, true)
	renderer := invoice.NewPDFRenderer(
		appCtx.GetSettingsStringValue("invoice", "CompanyName"),
		appCtx.GetSettingsStringValue("invoice", "CompanyAddress"),
	)
	pdf, err := renderer.Render(doc)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "RENDER_ERROR", "Failed to render invoice", err.Error())
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="invoice-%d.pdf"`, order.ID))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}
