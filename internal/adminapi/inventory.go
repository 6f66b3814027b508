package adminapi

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/dev-harshpatel/stoq/internal/domain"
	"github.com/dev-harshpatel/stoq/internal/webserver"
	"github.com/labstack/echo/v4"
)

type inventoryPayload struct {
	DeviceName    string   `json:"device_name" validate:"required,min=1,max=200"`
	Brand         string   `json:"brand" validate:"required,min=1,max=100"`
	Grade         string   `json:"grade" validate:"required,oneof=A B C D"`
	Storage       string   `json:"storage" validate:"omitempty,max=32"`
	Qty           *int     `json:"qty" validate:"required,min=0"`
	UnitCost      float64  `json:"unit_cost" validate:"min=0"`
	PurchasePrice *float64 `json:"purchase_price" validate:"omitempty,min=0"`
	HstPercent    *float64 `json:"hst_percent" validate:"omitempty,min=0,max=100"`
	SellingPrice  float64  `json:"selling_price" validate:"min=0"`
}

type qtyAdjustPayload struct {
	Delta  int    `json:"delta" validate:"required"`
	Remark string `json:"remark" validate:"omitempty,max=500"`
}

// registerInventoryRoutes registers inventory management endpoints
func registerInventoryRoutes() {
	webserver.ApiGET("/inventory", listInventory)
	webserver.ApiGET("/inventory/:id", getInventoryItem)
	webserver.ApiPOST("/inventory", createInventoryItem)
	webserver.ApiPUT("/inventory/:id", updateInventoryItem)
	webserver.ApiDELETE("/inventory/:id", archiveInventoryItem)
	webserver.ApiPOST("/inventory/:id/adjust", adjustInventoryQty)
	webserver.ApiPOST("/inventory/import", importInventory)
	webserver.ApiGET("/inventory/export", exportInventory)
}

func listInventory(c echo.Context) error {
	if err := adminOnly(c); err != nil {
		return err
	}
	page, pageSize := parsePagination(c)

	db := GetDB(c).Model(&domain.InventoryItem{})

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
	if c.QueryParam("archived") == "true" {
		db = db.Where("archived = ?", true)
	} else {
		db = db.Where("archived = ?", false)
	}

	// whitelist allowed sort columns to avoid SQL injection
	allowed := map[string]string{
		"id":            "id",
		"device_name":   "device_name",
		"brand":         "brand",
		"grade":         "grade",
		"qty":           "qty",
		"selling_price": "selling_price",
		"updated_at":    "updated_at",
	}
	sortCol, okSort := allowed[strings.TrimSpace(c.QueryParam("sort"))]
	if !okSort {
		sortCol = "id"
	}
	order := strings.ToUpper(strings.TrimSpace(c.QueryParam("order")))
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query inventory", err.Error())
	}

	var rows []domain.InventoryItem
	if err := db.Order(sortCol + " " + order).Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query inventory", err.Error())
	}

	return paged(c, rows, total, page, pageSize)
}

func getInventoryItem(c echo.Context) error {
	if err := adminOnly(c); err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid item ID", nil)
	}
	var item domain.InventoryItem
	if err := GetDB(c).Where("id = ?", id).First(&item).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Inventory item not found", nil)
	}
	return ok(c, item)
}

func createInventoryItem(c echo.Context) error {
	if err := adminOnly(c); err != nil {
		return err
	}
	var payload inventoryPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse inventory item", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	now := time.Now()
	item := domain.InventoryItem{
		DeviceName:    strings.TrimSpace(payload.DeviceName),
		Brand:         strings.TrimSpace(payload.Brand),
		Grade:         payload.Grade,
		Storage:       strings.TrimSpace(payload.Storage),
		Qty:           *payload.Qty,
		UnitCost:      payload.UnitCost,
		PurchasePrice: payload.PurchasePrice,
		HstPercent:    payload.HstPercent,
		SellingPrice:  payload.SellingPrice,
		LastUpdated:   &now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := GetDB(c).Create(&item).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create inventory item", err.Error())
	}
	oprLog(c, "inventory.create", fmt.Sprintf("created item %s %s", item.Brand, item.DeviceName))
	return ok(c, item)
}

func updateInventoryItem(c echo.Context) error {
	if err := adminOnly(c); err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid item ID", nil)
	}
	var item domain.InventoryItem
	if err := GetDB(c).Where("id = ?", id).First(&item).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Inventory item not found", nil)
	}

	var payload inventoryPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse inventory item", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	now := time.Now()
	item.DeviceName = strings.TrimSpace(payload.DeviceName)
	item.Brand = strings.TrimSpace(payload.Brand)
	item.Grade = payload.Grade
	item.Storage = strings.TrimSpace(payload.Storage)
	item.Qty = *payload.Qty
	item.UnitCost = payload.UnitCost
	item.PurchasePrice = payload.PurchasePrice
	item.HstPercent = payload.HstPercent
	item.SellingPrice = payload.SellingPrice
	item.LastUpdated = &now
	item.UpdatedAt = now

	if err := GetDB(c).Save(&item).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update inventory item", err.Error())
	}
	return ok(c, item)
}

// archiveInventoryItem hides an item from the storefront instead of deleting
// it: items are never hard-deleted in visible flows.
func archiveInventoryItem(c echo.Context) error {
	if err := adminOnly(c); err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid item ID", nil)
	}
	res := GetDB(c).Model(&domain.InventoryItem{}).Where("id = ?", id).Updates(map[string]interface{}{
		"archived":   true,
		"updated_at": time.Now(),
	})
	if res.Error != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to archive inventory item", res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Inventory item not found", nil)
	}
	oprLog(c, "inventory.archive", fmt.Sprintf("archived item %d", id))
	return ok(c, map[string]interface{}{"id": id, "archived": true})
}

func adjustInventoryQty(c echo.Context) error {
	if err := adminOnly(c); err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid item ID", nil)
	}
	var payload qtyAdjustPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse adjustment", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	var item domain.InventoryItem
	if err := GetDB(c).Where("id = ?", id).First(&item).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Inventory item not found", nil)
	}
	if item.Qty+payload.Delta < 0 {
		return fail(c, http.StatusConflict, "NEGATIVE_STOCK", "Adjustment would make quantity negative",
			map[string]interface{}{"qty": item.Qty, "delta": payload.Delta})
	}

	now := time.Now()
	item.Qty += payload.Delta
	item.LastUpdated = &now
	item.UpdatedAt = now
	if err := GetDB(c).Save(&item).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to adjust quantity", err.Error())
	}
	oprLog(c, "inventory.adjust", fmt.Sprintf("item %d delta %+d (%s)", id, payload.Delta, payload.Remark))
	return ok(c, item)
}

// importInventory ingests an xlsx bulk upload. Expected columns:
// device_name, brand, grade, storage, qty, unit_cost, purchase_price,
// hst_percent, selling_price. The first row is treated as a header.
func importInventory(c echo.Context) error {
	if err := adminOnly(c); err != nil {
		return err
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Upload file is required", nil)
	}
	src, err := fileHeader.Open()
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to open upload", err.Error())
	}
	defer src.Close()

	xls, err := excelize.OpenReader(src)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_FILE", "Not a valid xlsx file", err.Error())
	}

	rows := xls.GetRows(xls.GetSheetName(1))
	if len(rows) < 2 {
		return fail(c, http.StatusBadRequest, "EMPTY_FILE", "Spreadsheet contains no data rows", nil)
	}

	cell := func(row []string, idx int) string {
		if idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	db := GetDB(c)
	now := time.Now()
	imported := 0
	var rowErrors []string

	for i, row := range rows[1:] {
		rownum := i + 2
		name := cell(row, 0)
		brand := cell(row, 1)
		grade := strings.ToUpper(cell(row, 2))
		if name == "" || brand == "" {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: device_name and brand are required", rownum))
			continue
		}
		if grade < "A" || grade > "D" || len(grade) != 1 {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: invalid grade %q", rownum, cell(row, 2)))
			continue
		}
		qty, err := strconv.Atoi(cell(row, 4))
		if err != nil || qty < 0 {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: invalid qty %q", rownum, cell(row, 4)))
			continue
		}
		unitCost, _ := strconv.ParseFloat(cell(row, 5), 64)
		sellingPrice, _ := strconv.ParseFloat(cell(row, 8), 64)

		item := domain.InventoryItem{
			DeviceName:   name,
			Brand:        brand,
			Grade:        grade,
			Storage:      cell(row, 3),
			Qty:          qty,
			UnitCost:     unitCost,
			SellingPrice: sellingPrice,
			LastUpdated:  &now,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if v, err := strconv.ParseFloat(cell(row, 6), 64); err == nil {
			item.PurchasePrice = &v
		}
		if v, err := strconv.ParseFloat(cell(row, 7), 64); err == nil {
			item.HstPercent = &v
		}
		if err := db.Create(&item).Error; err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: %s", rownum, err.Error()))
			continue
		}
		imported++
	}

	oprLog(c, "inventory.import", fmt.Sprintf("imported %d rows from %s", imported, fileHeader.Filename))
	return ok(c, map[string]interface{}{
		"imported": imported,
		"errors":   rowErrors,
	})
}

// exportInventory writes the current inventory as an xlsx download.
func exportInventory(c echo.Context) error {
	if err := adminOnly(c); err != nil {
		return err
	}
	var items []domain.InventoryItem
	if err := GetDB(c).Where("archived = ?", false).Order("brand, device_name").Find(&items).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query inventory", err.Error())
	}

	xls := excelize.NewFile()
	sheet := xls.GetSheetName(1)
	headers := []string{"device_name", "brand", "grade", "storage", "qty",
		"unit_cost", "purchase_price", "hst_percent", "selling_price"}
	for col, h := range headers {
		xls.SetCellValue(sheet, fmt.Sprintf("%c1", 'A'+col), h)
	}
	for i, item := range items {
		rownum := i + 2
		xls.SetCellValue(sheet, fmt.Sprintf("A%d", rownum), item.DeviceName)
		xls.SetCellValue(sheet, fmt.Sprintf("B%d", rownum), item.Brand)
		xls.SetCellValue(sheet, fmt.Sprintf("C%d", rownum), item.Grade)
		xls.SetCellValue(sheet, fmt.Sprintf("D%d", rownum), item.Storage)
		xls.SetCellValue(sheet, fmt.Sprintf("E%d", rownum), item.Qty)
		xls.SetCellValue(sheet, fmt.Sprintf("F%d", rownum), item.UnitCost)
		if item.PurchasePrice != nil {
			xls.SetCellValue(sheet, fmt.Sprintf("G%d", rownum), *item.PurchasePrice)
		}
		if item.HstPercent != nil {
			xls.SetCellValue(sheet, fmt.Sprintf("H%d", rownum), *item.HstPercent)
		}
		xls.SetCellValue(sheet, fmt.Sprintf("I%d", rownum), item.SellingPrice)
	}

	var buf bytes.Buffer
	if err := xls.Write(&buf); err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_ERROR", "Failed to build export", err.Error())
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="inventory.xlsx"`)
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
