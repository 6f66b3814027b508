package adminapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/dev-harshpatel/stoq/internal/domain"
	"github.com/dev-harshpatel/stoq/internal/webserver"
	"github.com/labstack/echo/v4"
)

// registerReportRoutes registers reporting endpoints
func registerReportRoutes() {
	webserver.ApiGET("/reports/orders", orderSummaryReport)
	webserver.ApiGET("/reports/inventory", inventoryValuationReport)
}

type orderSummaryRow struct {
	Status  string  `json:"status"`
	Count   int64   `json:"count"`
	Revenue float64 `json:"revenue"`
}

// orderSummaryReport aggregates order counts and revenue by status for an
// optional from/to window (yyyy-mm-dd).
func orderSummaryReport(c echo.Context) error {
	if err := adminOnly(c); err != nil {
		return err
	}
	db := GetDB(c).Model(&domain.Order{})

	if from := strings.TrimSpace(c.QueryParam("from")); from != "" {
		if t, err := time.ParseInLocation("2006-01-02", from, time.Local); err == nil {
			db = db.Where("created_at >= ?", t)
		}
	}
	if to := strings.TrimSpace(c.QueryParam("to")); to != "" {
		if t, err := time.ParseInLocation("2006-01-02", to, time.Local); err == nil {
			db = db.Where("created_at < ?", t.AddDate(0, 0, 1))
		}
	}

	var rows []orderSummaryRow
	if err := db.
		Select("status, count(*) as count, coalesce(sum(total_price), 0) as revenue").
		Group("status").
		Scan(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to build order summary", err.Error())
	}

	return ok(c, rows)
}

type valuationRow struct {
	Brand       string  `json:"brand"`
	Items       int64   `json:"items"`
	Units       int64   `json:"units"`
	CostValue   float64 `json:"cost_value"`
	RetailValue float64 `json:"retail_value"`
}

// inventoryValuationReport sums on-hand stock value by brand.
func inventoryValuationReport(c echo.Context) error {
	if err := adminOnly(c); err != nil {
		return err
	}
	var rows []valuationRow
	if err := GetDB(c).Model(&domain.InventoryItem{}).
		Select("brand, count(*) as items, coalesce(sum(qty), 0) as units, " +
			"coalesce(sum(qty * unit_cost), 0) as cost_value, " +
			"coalesce(sum(qty * selling_price), 0) as retail_value").
		Where("archived = ?", false).
		Group("brand").
		Order("brand").
		Scan(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to build inventory valuation", err.Error())
	}
	return ok(c, rows)
}
