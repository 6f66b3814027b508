package adminapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dev-harshpatel/stoq/internal/app"
	"github.com/dev-harshpatel/stoq/internal/domain"
	"github.com/dev-harshpatel/stoq/internal/pricing"
	"github.com/dev-harshpatel/stoq/internal/webserver"
	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type rejectPayload struct {
	Reason  string `json:"reason" validate:"required,min=1,max=200"`
	Comment string `json:"comment" validate:"omitempty,max=1000"`
}

// registerOrderRoutes registers order management endpoints
func registerOrderRoutes() {
	webserver.ApiGET("/orders", listOrders)
	webserver.ApiGET("/orders/:id", getOrder)
	webserver.ApiPOST("/orders/:id/approve", approveOrder)
	webserver.ApiPOST("/orders/:id/reject", rejectOrder)
	webserver.ApiPOST("/orders/:id/complete", completeOrder)
	webserver.ApiGET("/orders/export", exportOrdersCSV)
}

func listOrders(c echo.Context) error {
	if err := adminOnly(c); err != nil {
		return err
	}
	page, pageSize := parsePagination(c)

	db := GetDB(c).Model(&domain.Order{})
	if status := strings.TrimSpace(c.QueryParam("status")); status != "" {
		db = db.Where("status = ?", status)
	}
	if cid := strings.TrimSpace(c.QueryParam("customer_id")); cid != "" {
		db = db.Where("customer_id = ?", cid)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}

	var orders []domain.Order
	if err := db.Order("id DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&orders).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}
	return paged(c, orders, total, page, pageSize)
}

func getOrder(c echo.Context) error {
	if err := adminOnly(c); err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	var order domain.Order
	if err := GetDB(c).Where("id = ?", id).First(&order).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Order not found", nil)
	}
	var items []domain.OrderItem
	GetDB(c).Where("order_id = ?", order.ID).Order("id").Find(&items)

	breakdown := pricing.Calculate(pricing.Input{
		Subtotal:      order.Subtotal,
		DiscountType:  order.DiscountType,
		DiscountValue: order.DiscountValue,
		Shipping:      order.ShippingAmount,
		TaxRate:       order.TaxRate,
	})

	return ok(c, map[string]interface{}{
		"order":     order,
		"items":     items,
		"breakdown": breakdown,
	})
}

// approveOrder approves a pending order and decrements stock for each line.
// The decrement is a read-then-write sequence without a transaction or
// optimistic-concurrency token, matching the documented contract: two
// concurrent approvals against the same item can race.
func approveOrder(c echo.Context) error {
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
	if order.Status != domain.OrderPending {
		return fail(c, http.StatusConflict, "INVALID_STATUS", "Only pending orders can be approved",
			map[string]interface{}{"status": order.Status})
	}

	var items []domain.OrderItem
	if err := db.Where("order_id = ?", order.ID).Find(&items).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load order items", err.Error())
	}

	// Verify stock before any decrement
	for _, line := range items {
		var item domain.InventoryItem
		if err := db.Where("id = ?", line.ItemId).First(&item).Error; err != nil {
			return fail(c, http.StatusConflict, "ITEM_MISSING", "Ordered item no longer exists",
				map[string]interface{}{"item_id": line.ItemId})
		}
		if item.Qty < line.Qty {
			return fail(c, http.StatusConflict, "INSUFFICIENT_STOCK", "Not enough stock for ordered item",
				map[string]interface{}{"item_id": line.ItemId, "available": item.Qty, "ordered": line.Qty})
		}
	}

	for _, line := range items {
		if err := db.Model(&domain.InventoryItem{}).
			Where("id = ?", line.ItemId).
			Updates(map[string]interface{}{
				"qty":        gorm.Expr("qty - ?", line.Qty),
				"updated_at": time.Now(),
			}).Error; err != nil {
			zap.L().Error("stock decrement failed", zap.Int64("item_id", line.ItemId), zap.Error(err))
		}
	}

	order.Status = domain.OrderApproved
	order.UpdatedAt = time.Now()
	if err := db.Save(&order).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to approve order", err.Error())
	}

	oprLog(c, "order.approve", fmt.Sprintf("approved order %d", order.ID))
	GetAppContext(c).Bus().Publish(app.EventOrderApproved, order.ID)
	return ok(c, order)
}

func rejectOrder(c echo.Context) error {
	if err := adminOnly(c); err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	var payload rejectPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse rejection", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	db := GetDB(c)
	var order domain.Order
	if err := db.Where("id = ?", id).First(&order).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Order not found", nil)
	}
	if order.Status != domain.OrderPending {
		return fail(c, http.StatusConflict, "INVALID_STATUS", "Only pending orders can be rejected",
			map[string]interface{}{"status": order.Status})
	}

	order.Status = domain.OrderRejected
	order.RejectReason = payload.Reason
	order.RejectComment = payload.Comment
	order.UpdatedAt = time.Now()
	if err := db.Save(&order).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to reject order", err.Error())
	}
	oprLog(c, "order.reject", fmt.Sprintf("rejected order %d: %s", order.ID, payload.Reason))
	return ok(c, order)
}

func completeOrder(c echo.Context) error {
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
	if order.Status != domain.OrderApproved {
		return fail(c, http.StatusConflict, "INVALID_STATUS", "Only approved orders can be completed",
			map[string]interface{}{"status": order.Status})
	}

	order.Status = domain.OrderCompleted
	order.UpdatedAt = time.Now()
	if err := db.Save(&order).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to complete order", err.Error())
	}
	oprLog(c, "order.complete", fmt.Sprintf("completed order %d", order.ID))
	return ok(c, order)
}

type orderCSVRow struct {
	ID            int64   `csv:"order_id"`
	CustomerId    int64   `csv:"customer_id"`
	Status        string  `csv:"status"`
	Subtotal      float64 `csv:"subtotal"`
	Discount      float64 `csv:"discount_amount"`
	Shipping      float64 `csv:"shipping"`
	Tax           float64 `csv:"tax"`
	Total         float64 `csv:"total"`
	InvoiceNumber string  `csv:"invoice_number"`
	InvoiceDate   string  `csv:"invoice_date"`
	DueDate       string  `csv:"due_date"`
	CreatedAt     string  `csv:"created_at"`
}

// exportOrdersCSV exports the filtered order list as csv.
func exportOrdersCSV(c echo.Context) error {
	if err := adminOnly(c); err != nil {
		return err
	}
	db := GetDB(c).Model(&domain.Order{})
	if status := strings.TrimSpace(c.QueryParam("status")); status != "" {
		db = db.Where("status = ?", status)
	}

	var orders []domain.Order
	if err := db.Order("id DESC").Find(&orders).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}

	rows := make([]orderCSVRow, 0, len(orders))
	for _, o := range orders {
		b := pricing.Calculate(pricing.Input{
			Subtotal:      o.Subtotal,
			DiscountType:  o.DiscountType,
			DiscountValue: o.DiscountValue,
			Shipping:      o.ShippingAmount,
			TaxRate:       o.TaxRate,
		})
		row := orderCSVRow{
			ID:            o.ID,
			CustomerId:    o.CustomerId,
			Status:        o.Status,
			Subtotal:      b.Subtotal,
			Discount:      b.DiscountAmount,
			Shipping:      b.Shipping,
			Tax:           b.TaxAmount,
			Total:         b.Total,
			InvoiceNumber: o.InvoiceNumber,
			DueDate:       o.DueDate,
			CreatedAt:     o.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if o.InvoiceDate != nil {
			row.InvoiceDate = o.InvoiceDate.Format("2006-01-02")
		}
		rows = append(rows, row)
	}

	data, err := gocsv.MarshalString(&rows)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_ERROR", "Failed to build csv", err.Error())
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="orders.csv"`)
	return c.Blob(http.StatusOK, "text/csv", []byte(data))
}
