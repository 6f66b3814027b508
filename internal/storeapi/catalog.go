package storeapi

import (
	"net/http"
	"strings"

	"github.com/dev-harshpatel/stoq/internal/domain"
	"github.com/dev-harshpatel/stoq/internal/webserver"
	"github.com/labstack/echo/v4"
)

// catalogItem is the customer-visible projection of an inventory item:
// cost fields stay internal.
type catalogItem struct {
	ID           int64   `json:"id,string"`
	DeviceName   string  `json:"device_name"`
	Brand        string  `json:"brand"`
	Grade        string  `json:"grade"`
	Storage      string  `json:"storage"`
	Qty          int     `json:"qty"`
	SellingPrice float64 `json:"selling_price"`
}

// registerCatalogRoutes registers storefront catalog endpoints
func registerCatalogRoutes() {
	webserver.ApiGET("/store/catalog", browseCatalog)
	webserver.ApiGET("/store/catalog/:id", getCatalogItem)
}

func browseCatalog(c echo.Context) error {
	page, pageSize := parsePagination(c)

	db := GetDB(c).Model(&domain.InventoryItem{}).Where("archived = ?", false)
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		if strings.EqualFold(db.Dialector.Name(), "postgres") {
			db = db.Where("device_name ILIKE ? OR brand ILIKE ?", "%"+q+"%", "%"+q+"%")
		} else {
			db = db.Where("LOWER(device_name) LIKE ? OR LOWER(brand) LIKE ?",
				"%"+strings.ToLower(q)+"%", "%"+strings.ToLower(q)+"%")
		}
	}
	if brand := strings.TrimSpace(c.QueryParam("brand")); brand != "" {
		db = db.Where("brand = ?", brand)
	}
	if grade := strings.TrimSpace(c.QueryParam("grade")); grade != "" {
		db = db.Where("grade = ?", grade)
	}
	if storage := strings.TrimSpace(c.QueryParam("storage")); storage != "" {
		db = db.Where("storage = ?", storage)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query catalog", err.Error())
	}

	var items []domain.InventoryItem
	if err := db.Order("brand, device_name").Offset((page - 1) * pageSize).Limit(pageSize).Find(&items).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query catalog", err.Error())
	}

	rows := make([]catalogItem, 0, len(items))
	for _, it := range items {
		rows = append(rows, catalogItem{
			ID:           it.ID,
			DeviceName:   it.DeviceName,
			Brand:        it.Brand,
			Grade:        it.Grade,
			Storage:      it.Storage,
			Qty:          it.Qty,
			SellingPrice: it.SellingPrice,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":     rows,
		"total":    total,
		"page":     page,
		"per_page": pageSize,
	})
}

func getCatalogItem(c echo.Context) error {
	var item domain.InventoryItem
	if err := GetDB(c).Where("id = ? AND archived = ?", c.Param("id"), false).First(&item).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Item not found", nil)
	}
	return ok(c, catalogItem{
		ID:           item.ID,
		DeviceName:   item.DeviceName,
		Brand:        item.Brand,
		Grade:        item.Grade,
		Storage:      item.Storage,
		Qty:          item.Qty,
		SellingPrice: item.SellingPrice,
	})
}
