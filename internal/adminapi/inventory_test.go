package adminapi

import (
	"net/http"
	"testing"

	"github.com/dev-harshpatel/stoq/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateInventoryItemValidation(t *testing.T) {
	application := newTestApp(t)

	// Grade must be A through D
	body := `{"device_name":"iPhone 13","brand":"Apple","grade":"E","qty":5,"unit_cost":400,"selling_price":600}`
	c, rec := newAdminContext(t, application, http.MethodPost, "/", body)
	require.NoError(t, createInventoryItem(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body = `{"device_name":"iPhone 13","brand":"Apple","grade":"A","storage":"128GB","qty":5,"unit_cost":400,"selling_price":600}`
	c2, rec2 := newAdminContext(t, application, http.MethodPost, "/", body)
	require.NoError(t, createInventoryItem(c2))
	require.Equal(t, http.StatusOK, rec2.Code, rec2.Body.String())

	var item domain.InventoryItem
	require.NoError(t, application.DB().Where("device_name = ?", "iPhone 13").First(&item).Error)
	assert.Equal(t, 5, item.Qty)
	assert.False(t, item.Archived)
	require.NotNil(t, item.LastUpdated)
}

func TestAdjustInventoryQty(t *testing.T) {
	application := newTestApp(t)
	db := application.DB()
	require.NoError(t, db.Create(&domain.InventoryItem{
		ID: 10, DeviceName: "Redmi Note 12", Brand: "Xiaomi", Grade: "C",
		Qty: 3, UnitCost: 90, SellingPrice: 140,
	}).Error)

	c, rec := newAdminContext(t, application, http.MethodPost, "/", `{"delta":-2,"remark":"damaged units"}`)
	c.SetParamNames("id")
	c.SetParamValues("10")
	require.NoError(t, adjustInventoryQty(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var item domain.InventoryItem
	require.NoError(t, db.First(&item, int64(10)).Error)
	assert.Equal(t, 1, item.Qty)

	// Going below zero is refused
	c2, rec2 := newAdminContext(t, application, http.MethodPost, "/", `{"delta":-5}`)
	c2.SetParamNames("id")
	c2.SetParamValues("10")
	require.NoError(t, adjustInventoryQty(c2))
	assert.Equal(t, http.StatusConflict, rec2.Code)

	require.NoError(t, db.First(&item, int64(10)).Error)
	assert.Equal(t, 1, item.Qty)
}

func TestArchiveInventoryItem(t *testing.T) {
	application := newTestApp(t)
	db := application.DB()
	require.NoError(t, db.Create(&domain.InventoryItem{
		ID: 20, DeviceName: "Galaxy A54", Brand: "Samsung", Grade: "B",
		Qty: 4, UnitCost: 180, SellingPrice: 260,
	}).Error)

	c, rec := newAdminContext(t, application, http.MethodDelete, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("20")
	require.NoError(t, archiveInventoryItem(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var item domain.InventoryItem
	require.NoError(t, db.First(&item, int64(20)).Error)
	assert.True(t, item.Archived)

	// Unknown ID is a 404
	c2, rec2 := newAdminContext(t, application, http.MethodDelete, "/", "")
	c2.SetParamNames("id")
	c2.SetParamValues("9999")
	require.NoError(t, archiveInventoryItem(c2))
	assert.Equal(t, http.StatusNotFound, rec2.Code)
}
