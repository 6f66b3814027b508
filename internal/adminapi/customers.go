package adminapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dev-harshpatel/stoq/internal/domain"
	"github.com/dev-harshpatel/stoq/internal/webserver"
	"github.com/labstack/echo/v4"
)

// registerCustomerRoutes registers customer account management endpoints
func registerCustomerRoutes() {
	webserver.ApiGET("/customers", listCustomers)
	webserver.ApiGET("/customers/:id", getCustomer)
	webserver.ApiPOST("/customers/:id/approve", approveCustomer)
	webserver.ApiPOST("/customers/:id/suspend", suspendCustomer)
}

func listCustomers(c echo.Context) error {
	if err := adminOnly(c); err != nil {
		return err
	}
	page, pageSize := parsePagination(c)

	db := GetDB(c).Model(&domain.Customer{})
	if status := strings.TrimSpace(c.QueryParam("status")); status != "" {
		db = db.Where("status = ?", status)
	}
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		if strings.EqualFold(db.Dialector.Name(), "postgres") {
			db = db.Where("username ILIKE ? OR company ILIKE ?", "%"+q+"%", "%"+q+"%")
		} else {
			db = db.Where("LOWER(username) LIKE ? OR LOWER(company) LIKE ?",
				"%"+strings.ToLower(q)+"%", "%"+strings.ToLower(q)+"%")
		}
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customers", err.Error())
	}

	var customers []domain.Customer
	if err := db.Order("id DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&customers).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customers", err.Error())
	}
	return paged(c, customers, total, page, pageSize)
}

func getCustomer(c echo.Context) error {
	if err := adminOnly(c); err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid customer ID", nil)
	}
	var cust domain.Customer
	if err := GetDB(c).Where("id = ?", id).First(&cust).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Customer not found", nil)
	}
	return ok(c, cust)
}

func setCustomerStatus(c echo.Context, status, action string) error {
	if err := adminOnly(c); err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid customer ID", nil)
	}
	res := GetDB(c).Model(&domain.Customer{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	})
	if res.Error != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update customer", res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Customer not found", nil)
	}
	oprLog(c, action, fmt.Sprintf("customer %d -> %s", id, status))
	return ok(c, map[string]interface{}{"id": id, "status": status})
}

func approveCustomer(c echo.Context) error {
	return setCustomerStatus(c, domain.CustomerApproved, "customer.approve")
}

func suspendCustomer(c echo.Context) error {
	return setCustomerStatus(c, domain.CustomerSuspended, "customer.suspend")
}
