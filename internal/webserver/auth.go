package webserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/dev-harshpatel/stoq/internal/app"
	"github.com/dev-harshpatel/stoq/internal/domain"
	"github.com/dev-harshpatel/stoq/pkg/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Roles carried in the JWT "lvl" claim
const (
	RoleSuper    = "super"
	RoleOpr      = "opr"
	RoleCustomer = "customer"
)

const tokenTTL = 24 * time.Hour

type loginPayload struct {
	Username string `json:"username" validate:"required,min=1,max=100"`
	Password string `json:"password" validate:"required,min=1,max=100"`
}

type registerPayload struct {
	Username  string `json:"username" validate:"required,min=3,max=100"`
	Password  string `json:"password" validate:"required,min=6,max=100"`
	Realname  string `json:"realname" validate:"omitempty,max=200"`
	Email     string `json:"email" validate:"omitempty,email"`
	Mobile    string `json:"mobile" validate:"omitempty,max=32"`
	Company   string `json:"company" validate:"omitempty,max=200"`
	TaxNumber string `json:"tax_number" validate:"omitempty,max=64"`
	Address   string `json:"address" validate:"omitempty,max=500"`
	City      string `json:"city" validate:"omitempty,max=100"`
	Country   string `json:"country" validate:"omitempty,max=100"`
}

func registerAuthRoutes() {
	PubPOST("/auth/login", login)
	PubPOST("/auth/register", register)
}

func issueToken(c echo.Context, uid int64, username, role string) (string, error) {
	appCtx := GetAppContext(c)
	claims := jwt.MapClaims{
		"uid": uid,
		"usr": username,
		"lvl": role,
		"exp": time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(appCtx.Config().Web.JwtSecret))
}

// login authenticates admin operators first, then customer accounts.
// Customers must be approved before they can sign in.
func login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unable to parse login parameters")
	}
	if err := c.Validate(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
	}

	db := GetAppContext(c).DB()
	hashed := common.Sha256HashWithSalt(payload.Password, common.GetSecretSalt())

	var opr domain.SysOpr
	if err := db.Where("username = ?", payload.Username).First(&opr).Error; err == nil {
		if opr.Password != hashed || !strings.EqualFold(opr.Status, common.ENABLED) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
		}
		role := RoleOpr
		if strings.EqualFold(opr.Level, "super") {
			role = RoleSuper
		}
		token, err := issueToken(c, opr.ID, opr.Username, role)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to issue token")
		}
		db.Model(&domain.SysOpr{}).Where("id = ?", opr.ID).Update("last_login", time.Now())
		return c.JSON(http.StatusOK, map[string]interface{}{
			"token": token, "level": role, "username": opr.Username,
		})
	}

	var cust domain.Customer
	if err := db.Where("username = ?", payload.Username).First(&cust).Error; err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
	}
	if cust.Password != hashed {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
	}
	if cust.Status != domain.CustomerApproved {
		return echo.NewHTTPError(http.StatusForbidden, "account pending approval")
	}

	token, err := issueToken(c, cust.ID, cust.Username, RoleCustomer)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to issue token")
	}
	db.Model(&domain.Customer{}).Where("id = ?", cust.ID).Update("last_login", time.Now())
	return c.JSON(http.StatusOK, map[string]interface{}{
		"token": token, "level": RoleCustomer, "username": cust.Username,
	})
}

// register creates a pending customer account awaiting admin approval.
func register(c echo.Context) error {
	var payload registerPayload
	if err := c.Bind(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unable to parse registration parameters")
	}
	if err := c.Validate(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	db := GetAppContext(c).DB()

	var exists int64
	db.Model(&domain.Customer{}).Where("username = ?", payload.Username).Count(&exists)
	if exists > 0 {
		return echo.NewHTTPError(http.StatusConflict, "username already registered")
	}

	cust := domain.Customer{
		ID:        common.UUIDint64(),
		Username:  strings.TrimSpace(payload.Username),
		Password:  common.Sha256HashWithSalt(payload.Password, common.GetSecretSalt()),
		Realname:  payload.Realname,
		Email:     payload.Email,
		Mobile:    payload.Mobile,
		Company:   payload.Company,
		TaxNumber: payload.TaxNumber,
		Address:   payload.Address,
		City:      payload.City,
		Country:   payload.Country,
		Status:    domain.CustomerPending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := db.Create(&cust).Error; err != nil {
		zap.L().Error("failed to create customer", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create account")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"id": cust.ID, "status": cust.Status,
	})
}

// GetAppContext returns the application context injected by Init.
func GetAppContext(c echo.Context) app.AppContext {
	return c.Get(AppContextKey).(app.AppContext)
}

// Claims returns the JWT claims of the authenticated request, or nil for
// unauthenticated routes.
func Claims(c echo.Context) jwt.MapClaims {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}
	return claims
}

// IsAdmin reports whether the request carries an operator token.
func IsAdmin(c echo.Context) bool {
	claims := Claims(c)
	if claims == nil {
		return false
	}
	lvl, _ := claims["lvl"].(string)
	return lvl == RoleSuper || lvl == RoleOpr
}

// CurrentUID returns the authenticated account id.
func CurrentUID(c echo.Context) int64 {
	claims := Claims(c)
	if claims == nil {
		return 0
	}
	switch v := claims["uid"].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	}
	return 0
}

// CurrentUsername returns the authenticated account username.
func CurrentUsername(c echo.Context) string {
	claims := Claims(c)
	if claims == nil {
		return ""
	}
	usr, _ := claims["usr"].(string)
	return usr
}
