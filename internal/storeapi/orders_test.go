package storeapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dev-harshpatel/stoq/config"
	"github.com/dev-harshpatel/stoq/internal/app"
	"github.com/dev-harshpatel/stoq/internal/domain"
	"github.com/dev-harshpatel/stoq/internal/webserver"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

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

func newCustomerContext(t *testing.T, application *app.Application, uid int64, method, path string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(webserver.AppContextKey, application)
	c.Set("user", jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid": float64(uid), "usr": "buyer", "lvl": webserver.RoleCustomer,
	}))
	return c, rec
}

func seedStore(t *testing.T, db *gorm.DB, cartBlob string) *domain.Customer {
	t.Helper()
	require.NoError(t, db.Create(&domain.SysConfig{
		ID: 1, Type: "order", Name: "DefaultTaxRate", Value: "0.13",
	}).Error)
	require.NoError(t, db.Create(&domain.InventoryItem{
		ID: 100, DeviceName: "Pixel 8", Brand: "Google", Grade: "B",
		Storage: "256GB", Qty: 5, UnitCost: 280, SellingPrice: 450,
	}).Error)
	cust := &domain.Customer{
		ID: 7, Username: "buyer", Status: domain.CustomerApproved,
		Cart: cartBlob, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	require.NoError(t, db.Create(cust).Error)
	return cust
}

func respData(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	data, _ := body["data"].(map[string]interface{})
	return data
}

func TestPlaceOrderFromCart(t *testing.T) {
	application := newTestApp(t)
	db := application.DB()
	cust := seedStore(t, db, `[{"item_id":"100","qty":2}]`)

	c, rec := newCustomerContext(t, application, cust.ID, http.MethodPost, "/")
	require.NoError(t, placeOrder(c))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var order domain.Order
	require.NoError(t, db.Where("customer_id = ?", cust.ID).First(&order).Error)
	assert.Equal(t, domain.OrderPending, order.Status)
	assert.Equal(t, 900.0, order.Subtotal)
	assert.Equal(t, 117.0, order.TaxAmount)
	assert.Equal(t, 1017.0, order.TotalPrice)

	var lines []domain.OrderItem
	require.NoError(t, db.Where("order_id = ?", order.ID).Find(&lines).Error)
	require.Len(t, lines, 1)
	assert.Equal(t, "Pixel 8", lines[0].DeviceName)
	assert.Equal(t, 450.0, lines[0].UnitPrice)
	assert.Equal(t, 2, lines[0].Qty)

	// Cart is cleared, stock untouched until approval
	var after domain.Customer
	require.NoError(t, db.First(&after, cust.ID).Error)
	assert.Equal(t, "[]", after.Cart)
	var item domain.InventoryItem
	require.NoError(t, db.First(&item, int64(100)).Error)
	assert.Equal(t, 5, item.Qty)
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	application := newTestApp(t)
	cust := seedStore(t, application.DB(), `[{"item_id":"100","qty":9}]`)

	c, rec := newCustomerContext(t, application, cust.ID, http.MethodPost, "/")
	require.NoError(t, placeOrder(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	application := newTestApp(t)
	cust := seedStore(t, application.DB(), "[]")

	c, rec := newCustomerContext(t, application, cust.ID, http.MethodPost, "/")
	require.NoError(t, placeOrder(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCustomerOrderViewHidesUnconfirmedInvoice(t *testing.T) {
	application := newTestApp(t)
	db := application.DB()
	cust := seedStore(t, db, "[]")

	invoiceDate := time.Date(2026, 1, 21, 0, 0, 0, 0, time.UTC)
	order := &domain.Order{
		ID: 500, CustomerId: cust.ID, Status: domain.OrderApproved,
		Subtotal: 1000, DiscountType: domain.DiscountPercentage, DiscountValue: 10,
		ShippingAmount: 50, TaxRate: 0.13, TaxAmount: 123.50, TotalPrice: 1073.50,
		InvoiceNumber: "#01210126", PoNumber: "#01210126",
		InvoiceDate: &invoiceDate, PaymentTerms: "NET 15", DueDate: "2026-02-05",
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	require.NoError(t, db.Create(order).Error)

	c, rec := newCustomerContext(t, application, cust.ID, http.MethodGet, "/")
	c.SetParamNames("id")
	c.SetParamValues("500")
	require.NoError(t, getMyOrder(c))
	require.Equal(t, http.StatusOK, rec.Code)

	view := respData(t, rec)
	// Draft invoice: discount and shipping hidden, tax on bare subtotal
	assert.NotContains(t, view, "invoice_number")
	assert.NotContains(t, view, "discount_amount")
	assert.Equal(t, 1000.0, view["subtotal"])
	assert.Equal(t, 130.0, view["tax_amount"])
	assert.Equal(t, 1130.0, view["total_price"])

	// After confirmation the full breakdown is visible
	now := time.Now()
	require.NoError(t, db.Model(order).Updates(map[string]interface{}{
		"invoice_confirmed":    true,
		"invoice_confirmed_at": now,
	}).Error)

	c2, rec2 := newCustomerContext(t, application, cust.ID, http.MethodGet, "/")
	c2.SetParamNames("id")
	c2.SetParamValues("500")
	require.NoError(t, getMyOrder(c2))
	view2 := respData(t, rec2)
	assert.Equal(t, "#01210126", view2["invoice_number"])
	assert.Equal(t, "2026-02-05", view2["due_date"])
	assert.Equal(t, 100.0, view2["discount_amount"])
	assert.Equal(t, 50.0, view2["shipping_amount"])
	assert.Equal(t, 1073.50, view2["total_price"])
}

func TestDownloadInvoiceRequiresConfirmation(t *testing.T) {
	application := newTestApp(t)
	db := application.DB()
	cust := seedStore(t, db, "[]")

	order := &domain.Order{
		ID: 600, CustomerId: cust.ID, Status: domain.OrderApproved,
		Subtotal: 100, TaxRate: 0.13, InvoiceNumber: "#01210126",
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	require.NoError(t, db.Create(order).Error)

	c, rec := newCustomerContext(t, application, cust.ID, http.MethodGet, "/")
	c.SetParamNames("id")
	c.SetParamValues("600")
	require.NoError(t, downloadMyInvoicePDF(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestStoreRejectsSuspendedCustomer(t *testing.T) {
	application := newTestApp(t)
	db := application.DB()
	cust := seedStore(t, db, "[]")
	require.NoError(t, db.Model(cust).Update("status", domain.CustomerSuspended).Error)

	c, rec := newCustomerContext(t, application, cust.ID, http.MethodGet, "/")
	require.NoError(t, listMyOrders(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
