package adminapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dev-harshpatel/stoq/internal/app"
	"github.com/dev-harshpatel/stoq/internal/domain"
	"github.com/dev-harshpatel/stoq/internal/webserver"
	"github.com/dev-harshpatel/stoq/pkg/common"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// Init registers all admin API routes
func Init() {
	registerInventoryRoutes()
	registerOrderRoutes()
	registerInvoiceRoutes()
	registerCustomerRoutes()
	registerReportRoutes()
}

// GetAppContext returns the application context for a request
func GetAppContext(c echo.Context) app.AppContext {
	return webserver.GetAppContext(c)
}

// GetDB returns the request database handle
func GetDB(c echo.Context) *gorm.DB {
	return webserver.GetAppContext(c).DB()
}

// adminOnly rejects customer tokens on admin routes
func adminOnly(c echo.Context) error {
	if !webserver.IsAdmin(c) {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "Admin access required", nil)
	}
	return nil
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

func paged(c echo.Context, rows interface{}, total int64, page, pageSize int) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":     rows,
		"total":    total,
		"page":     page,
		"per_page": pageSize,
	})
}

func parsePagination(c echo.Context) (int, int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.QueryParam("perPage"))
	if pageSize < 1 || pageSize > 500 {
		pageSize = 20
	}
	return page, pageSize
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

func handleValidationError(c echo.Context, err error) error {
	return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request parameters", err.Error())
}

// oprLog records an admin action in the audit log
func oprLog(c echo.Context, action, desc string) {
	GetDB(c).Create(&domain.SysOprLog{
		ID:        common.UUIDint64(),
		OprName:   webserver.CurrentUsername(c),
		OprIp:     c.RealIP(),
		OptAction: action,
		OptDesc:   desc,
		OptTime:   time.Now(),
	})
}
