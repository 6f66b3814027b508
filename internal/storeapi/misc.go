package storeapi

import (
	"net/http"
	"strconv"

	"github.com/dev-harshpatel/stoq/internal/app"
	"github.com/dev-harshpatel/stoq/internal/domain"
	"github.com/dev-harshpatel/stoq/internal/webserver"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// Init registers all storefront API routes
func Init() {
	registerCatalogRoutes()
	registerCartRoutes()
	registerStoreOrderRoutes()
}

// GetAppContext returns the application context for a request
func GetAppContext(c echo.Context) app.AppContext {
	return webserver.GetAppContext(c)
}

// GetDB returns the request database handle
func GetDB(c echo.Context) *gorm.DB {
	return webserver.GetAppContext(c).DB()
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, map[string]interface{}{"data": data})
}

func fail(c echo.Context, status int, code, message string, details interface{}) error {
	return c.JSON(status, map[string]interface{}{
		"code":    code,
		"message": message,
		"details": details,
	})
}

func parsePagination(c echo.Context) (int, int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.QueryParam("perPage"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

// currentCustomer loads the approved customer account behind the token.
// Admin tokens have no customer profile and are rejected here.
func currentCustomer(c echo.Context) (*domain.Customer, error) {
	if webserver.IsAdmin(c) {
		return nil, fail(c, http.StatusForbidden, "FORBIDDEN", "Customer account required", nil)
	}
	uid := webserver.CurrentUID(c)
	if uid == 0 {
		return nil, fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", nil)
	}
	var cust domain.Customer
	if err := GetDB(c).Where("id = ?", uid).First(&cust).Error; err != nil {
		return nil, fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Account not found", nil)
	}
	if cust.Status != domain.CustomerApproved {
		return nil, fail(c, http.StatusForbidden, "NOT_APPROVED", "Account is not approved", nil)
	}
	return &cust, nil
}
