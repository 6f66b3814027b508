package storeapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dev-harshpatel/stoq/internal/app"
	"github.com/dev-harshpatel/stoq/internal/cart"
	"github.com/dev-harshpatel/stoq/internal/domain"
	"github.com/dev-harshpatel/stoq/internal/invoice"
	"github.com/dev-harshpatel/stoq/internal/pricing"
	"github.com/dev-harshpatel/stoq/internal/webserver"
	"github.com/dev-harshpatel/stoq/pkg/common"
	"github.com/labstack/echo/v4"
)

// registerStoreOrderRoutes registers customer order endpoints
func registerStoreOrderRoutes() {
	webserver.ApiPOST("/store/orders", placeOrder)
	webserver.ApiGET("/store/orders", listMyOrders)
	webserver.ApiGET("/store/orders/:id", getMyOrder)
	webserver.ApiGET("/store/orders/:id/invoice.pdf", downloadMyInvoicePDF)
}

// placeOrder turns the saved cart into a pending order. Line items snapshot
// the current inventory record; the subtotal is taxed at the default HST
// rate with no discount or shipping, which an admin may add on the invoice
// later.
func placeOrder(c echo.Context) error {
	cust, err := currentCustomer(c)
	if err != nil {
		return err
	}
	db := GetDB(c)

	entries := cart.DecodeCart(cust.Cart)
	if len(entries) == 0 {
		return fail(c, http.StatusBadRequest, "EMPTY_CART", "Cart is empty", nil)
	}

	appCtx := GetAppContext(c)
	taxRate := appCtx.GetSettingsFloat64Value("order", "DefaultTaxRate")

	now := time.Now()
	order := domain.Order{
		ID:         common.UUIDint64(),
		CustomerId: cust.ID,
		Status:     domain.OrderPending,
		TaxRate:    taxRate,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	var items []domain.OrderItem
	var subtotal float64
	for _, entry := range entries {
		if entry.Qty <= 0 {
			continue
		}
		var inv domain.InventoryItem
		if err := db.Where("id = ? AND archived = ?", entry.ItemID, false).First(&inv).Error; err != nil {
			return fail(c, http.StatusConflict, "ITEM_UNAVAILABLE", "A cart item is no longer available",
				map[string]interface{}{"item_id": entry.ItemID})
		}
		if inv.Qty < entry.Qty {
			return fail(c, http.StatusConflict, "INSUFFICIENT_STOCK", "Not enough stock for a cart item",
				map[string]interface{}{"item_id": entry.ItemID, "available": inv.Qty, "requested": entry.Qty})
		}
		line := domain.OrderItem{
			ID:         common.UUIDint64(),
			OrderId:    order.ID,
			ItemId:     inv.ID,
			DeviceName: inv.DeviceName,
			Brand:      inv.Brand,
			Grade:      inv.Grade,
			Storage:    inv.Storage,
			UnitPrice:  inv.SellingPrice,
			Qty:        entry.Qty,
			LineTotal:  pricing.RoundCents(inv.SellingPrice * float64(entry.Qty)),
			CreatedAt:  now,
		}
		subtotal += line.LineTotal
		items = append(items, line)
	}
	if len(items) == 0 {
		return fail(c, http.StatusBadRequest, "EMPTY_CART", "Cart has no valid items", nil)
	}

	order.Subtotal = pricing.RoundCents(subtotal)
	breakdown := pricing.Calculate(pricing.Input{Subtotal: order.Subtotal, TaxRate: taxRate})
	order.TaxAmount = breakdown.TaxAmount
	order.TotalPrice = breakdown.Total

	if err := db.Create(&order).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create order", err.Error())
	}
	if err := db.Create(&items).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create order items", err.Error())
	}

	// Clear the cart once the order exists
	db.Model(&domain.Customer{}).Where("id = ?", cust.ID).Updates(map[string]interface{}{
		"cart":       cart.EncodeCart(nil),
		"updated_at": now,
	})

	appCtx.Bus().Publish(app.EventOrderPlaced, order.ID)
	return ok(c, map[string]interface{}{
		"order": order,
		"items": items,
	})
}

func listMyOrders(c echo.Context) error {
	cust, err := currentCustomer(c)
	if err != nil {
		return err
	}
	page, pageSize := parsePagination(c)

	db := GetDB(c).Model(&domain.Order{}).Where("customer_id = ?", cust.ID)
	if status := c.QueryParam("status"); status != "" {
		db = db.Where("status = ?", status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}
	var orders []domain.Order
	if err := db.Order("id DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&orders).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}

	rows := make([]map[string]interface{}, 0, len(orders))
	for i := range orders {
		rows = append(rows, customerOrderView(&orders[i]))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":     rows,
		"total":    total,
		"page":     page,
		"per_page": pageSize,
	})
}

// customerOrderView applies the visibility rule: an unconfirmed invoice
// shows subtotal plus tax on the subtotal only, hiding discount and
// shipping until an admin confirms.
func customerOrderView(o *domain.Order) map[string]interface{} {
	breakdown := pricing.CalculateForViewer(pricing.Input{
		Subtotal:      o.Subtotal,
		DiscountType:  o.DiscountType,
		DiscountValue: o.DiscountValue,
		Shipping:      o.ShippingAmount,
		TaxRate:       o.TaxRate,
	}, o.InvoiceConfirmed, false)

	view := map[string]interface{}{
		"id":             fmt.Sprintf("%d", o.ID),
		"status":         o.Status,
		"subtotal":       breakdown.Subtotal,
		"tax_amount":     breakdown.TaxAmount,
		"total_price":    breakdown.DisplayTotal,
		"created_at":     o.CreatedAt,
		"invoice_state":  invoice.StateOf(o),
		"reject_reason":  o.RejectReason,
		"reject_comment": o.RejectComment,
	}
	if o.InvoiceConfirmed {
		view["invoice_number"] = o.InvoiceNumber
		view["po_number"] = o.PoNumber
		view["payment_terms"] = o.PaymentTerms
		view["due_date"] = o.DueDate
		view["discount_amount"] = breakdown.DiscountAmount
		view["shipping_amount"] = breakdown.Shipping
	}
	return view
}

func getMyOrder(c echo.Context) error {
	cust, err := currentCustomer(c)
	if err != nil {
		return err
	}
	var order domain.Order
	if err := GetDB(c).Where("id = ? AND customer_id = ?", c.Param("id"), cust.ID).First(&order).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Order not found", nil)
	}
	var items []domain.OrderItem
	GetDB(c).Where("order_id = ?", order.ID).Order("id").Find(&items)

	view := customerOrderView(&order)
	view["items"] = items
	return ok(c, view)
}

// downloadMyInvoicePDF is gated on invoice confirmation: drafts are not
// visible to customers.
func downloadMyInvoicePDF(c echo.Context) error {
	cust, err := currentCustomer(c)
	if err != nil {
		return err
	}
	db := GetDB(c)
	var order domain.Order
	if err := db.Where("id = ? AND customer_id = ?", c.Param("id"), cust.ID).First(&order).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Order not found", nil)
	}
	if !invoice.CanDownloadPDF(&order, false) {
		return fail(c, http.StatusForbidden, "NOT_CONFIRMED", "Invoice is not available for download", nil)
	}

	var items []domain.OrderItem
	db.Where("order_id = ?", order.ID).Order("id").Find(&items)

	appCtx := GetAppContext(c)
	doc := invoice.BuildDocument(&order, items, cust, false)
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
