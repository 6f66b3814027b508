package adminapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dev-harshpatel/stoq/config"
	"github.com/dev-harshpatel/stoq/internal/app"
	"github.com/dev-harshpatel/stoq/internal/domain"
	"github.com/dev-harshpatel/stoq/internal/webserver"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testValidator struct {
	validate *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

func newTestApp(t *testing.T) *app.Application {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=private"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Tables...))

	application := app.NewApplication(config.DefaultAppConfig)
	application.OverrideDB(db)
	return application
}

func newAdminContext(t *testing.T, application *app.Application, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = &testValidator{validate: validator.New()}

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(webserver.AppContextKey, application)
	c.Set("user", jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid": float64(1), "usr": "admin", "lvl": webserver.RoleSuper,
	}))
	return c, rec
}

func seedOrderWithItem(t *testing.T, db *gorm.DB, stock, ordered int) (*domain.Order, *domain.InventoryItem) {
	t.Helper()
	item := &domain.InventoryItem{
		ID: 100, DeviceName: "Galaxy S22", Brand: "Samsung", Grade: "A",
		Storage: "128GB", Qty: stock, UnitCost: 300, SellingPrice: 450,
	}
	require.NoError(t, db.Create(item).Error)

	order := &domain.Order{
		ID: 200, CustomerId: 1, Status: domain.OrderPending,
		Subtotal: 450 * float64(ordered), TaxRate: 0.13,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	require.NoError(t, db.Create(order).Error)
	require.NoError(t, db.Create(&domain.OrderItem{
		ID: 300, OrderId: order.ID, ItemId: item.ID,
		DeviceName: item.DeviceName, Brand: item.Brand, Grade: item.Grade,
		Storage: item.Storage, UnitPrice: 450, Qty: ordered,
		LineTotal: 450 * float64(ordered),
	}).Error)
	return order, item
}

func TestApproveOrderDecrementsStock(t *testing.T) {
	application := newTestApp(t)
	db := application.DB()
	order, item := seedOrderWithItem(t, db, 10, 3)

	c, rec := newAdminContext(t, application, http.MethodPost, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("200")
	require.NoError(t, approveOrder(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var got domain.InventoryItem
	require.NoError(t, db.First(&got, item.ID).Error)
	assert.Equal(t, 7, got.Qty)

	var updated domain.Order
	require.NoError(t, db.First(&updated, order.ID).Error)
	assert.Equal(t, domain.OrderApproved, updated.Status)
}

func TestApproveOrderInsufficientStock(t *testing.T) {
	application := newTestApp(t)
	db := application.DB()
	_, item := seedOrderWithItem(t, db, 2, 3)

	c, rec := newAdminContext(t, application, http.MethodPost, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("200")
	require.NoError(t, approveOrder(c))
	assert.Equal(t, http.StatusConflict, rec.Code)

	// No decrement on refusal
	var got domain.InventoryItem
	require.NoError(t, db.First(&got, item.ID).Error)
	assert.Equal(t, 2, got.Qty)
}

func TestApproveOrderRequiresPendingStatus(t *testing.T) {
	application := newTestApp(t)
	db := application.DB()
	order, _ := seedOrderWithItem(t, db, 10, 1)
	require.NoError(t, db.Model(order).Update("status", domain.OrderRejected).Error)

	c, rec := newAdminContext(t, application, http.MethodPost, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("200")
	require.NoError(t, approveOrder(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSaveInvoiceAllocatesAndComputes(t *testing.T) {
	application := newTestApp(t)
	db := application.DB()
	order, _ := seedOrderWithItem(t, db, 10, 1)
	require.NoError(t, db.Model(order).Update("status", domain.OrderApproved).Error)
	require.NoError(t, db.Model(order).Update("subtotal", 1000.0).Error)

	body := `{"invoice_date":"2026-01-21","payment_terms":"NET 15","discount_type":"percentage","discount_value":10,"shipping_amount":50,"tax_rate":0.13}`
	c, rec := newAdminContext(t, application, http.MethodPut, "/", body)
	c.SetParamNames("id")
	c.SetParamValues("200")
	require.NoError(t, saveInvoice(c))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var saved domain.Order
	require.NoError(t, db.First(&saved, order.ID).Error)
	assert.Equal(t, "#01210126", saved.InvoiceNumber)
	assert.NotEmpty(t, saved.PoNumber)
	assert.Equal(t, "2026-02-05", saved.DueDate)
	assert.Equal(t, 123.50, saved.TaxAmount)
	assert.Equal(t, 1073.50, saved.TotalPrice)
	assert.False(t, saved.InvoiceConfirmed)

	// Re-edit keeps the allocated number
	body2 := `{"shipping_amount":0}`
	c2, rec2 := newAdminContext(t, application, http.MethodPut, "/", body2)
	c2.SetParamNames("id")
	c2.SetParamValues("200")
	require.NoError(t, saveInvoice(c2))
	require.Equal(t, http.StatusOK, rec2.Code)

	require.NoError(t, db.First(&saved, order.ID).Error)
	assert.Equal(t, "#01210126", saved.InvoiceNumber)
	assert.Equal(t, 1017.0, saved.TotalPrice) // 900 + 117 tax
}

func TestSaveInvoiceClearsOptionalFields(t *testing.T) {
	application := newTestApp(t)
	db := application.DB()
	order, _ := seedOrderWithItem(t, db, 10, 1)
	require.NoError(t, db.Model(order).Update("status", domain.OrderApproved).Error)
	require.NoError(t, db.Model(order).Update("subtotal", 1000.0).Error)

	body := `{"invoice_date":"2026-01-21","discount_type":"percentage","discount_value":10,"notes":"rush order"}`
	c, rec := newAdminContext(t, application, http.MethodPut, "/", body)
	c.SetParamNames("id")
	c.SetParamValues("200")
	require.NoError(t, saveInvoice(c))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var saved domain.Order
	require.NoError(t, db.First(&saved, order.ID).Error)
	assert.Equal(t, domain.DiscountPercentage, saved.DiscountType)
	assert.Equal(t, "rush order", saved.InvoiceNotes)
	assert.Equal(t, 1017.0, saved.TotalPrice)

	// Present-but-empty fields clear the stored values; absent fields stay
	body2 := `{"discount_type":"","notes":""}`
	c2, rec2 := newAdminContext(t, application, http.MethodPut, "/", body2)
	c2.SetParamNames("id")
	c2.SetParamValues("200")
	require.NoError(t, saveInvoice(c2))
	require.Equal(t, http.StatusOK, rec2.Code, rec2.Body.String())

	require.NoError(t, db.First(&saved, order.ID).Error)
	assert.Equal(t, "", saved.DiscountType)
	assert.Equal(t, "", saved.InvoiceNotes)
	assert.Equal(t, 1130.0, saved.TotalPrice) // discount no longer applies
}

func TestConfirmInvoiceLocksEditing(t *testing.T) {
	application := newTestApp(t)
	db := application.DB()
	order, _ := seedOrderWithItem(t, db, 10, 1)
	require.NoError(t, db.Model(order).Update("status", domain.OrderApproved).Error)

	// Confirm without a draft fails
	c0, rec0 := newAdminContext(t, application, http.MethodPost, "/", "")
	c0.SetParamNames("id")
	c0.SetParamValues("200")
	require.NoError(t, confirmInvoice(c0))
	assert.Equal(t, http.StatusConflict, rec0.Code)

	// Create draft then confirm
	c1, rec1 := newAdminContext(t, application, http.MethodPut, "/", `{"invoice_date":"2026-01-21"}`)
	c1.SetParamNames("id")
	c1.SetParamValues("200")
	require.NoError(t, saveInvoice(c1))
	require.Equal(t, http.StatusOK, rec1.Code)

	c2, rec2 := newAdminContext(t, application, http.MethodPost, "/", "")
	c2.SetParamNames("id")
	c2.SetParamValues("200")
	require.NoError(t, confirmInvoice(c2))
	require.Equal(t, http.StatusOK, rec2.Code)

	var saved domain.Order
	require.NoError(t, db.First(&saved, order.ID).Error)
	assert.True(t, saved.InvoiceConfirmed)
	require.NotNil(t, saved.InvoiceConfirmedAt)

	// Further edits are rejected
	c3, rec3 := newAdminContext(t, application, http.MethodPut, "/", `{"shipping_amount":99}`)
	c3.SetParamNames("id")
	c3.SetParamValues("200")
	require.NoError(t, saveInvoice(c3))
	assert.Equal(t, http.StatusConflict, rec3.Code)

	// Confirm is one-way
	c4, rec4 := newAdminContext(t, application, http.MethodPost, "/", "")
	c4.SetParamNames("id")
	c4.SetParamValues("200")
	require.NoError(t, confirmInvoice(c4))
	assert.Equal(t, http.StatusConflict, rec4.Code)
}

func TestAdminRoutesRejectCustomerToken(t *testing.T) {
	application := newTestApp(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(webserver.AppContextKey, application)
	c.Set("user", jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid": float64(9), "usr": "buyer", "lvl": webserver.RoleCustomer,
	}))

	require.NoError(t, listOrders(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "FORBIDDEN", body["code"])
}
