// Package webserver hosts the echo HTTP server and exposes route
// registration helpers for the API packages.
package webserver

import (
	"fmt"
	"net/http"

	"github.com/dev-harshpatel/stoq/internal/app"
	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// AppContextKey is the echo context key holding the application context.
const AppContextKey = "stoq_appctx"

type WebServer struct {
	root   *echo.Echo
	api    *echo.Group
	appCtx app.AppContext
}

var server *WebServer

type payloadValidator struct {
	validate *validator.Validate
}

func (v *payloadValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// Init builds the echo server: panic recovery, request logging, payload
// validation, the public auth endpoints and the JWT-protected /api group.
func Init(appCtx app.AppContext) *WebServer {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &payloadValidator{validate: validator.New()}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			zap.L().Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
			)
			return nil
		},
	}))

	// Inject the application context for handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(AppContextKey, appCtx)
			return next(c)
		}
	})

	api := e.Group("/api/v1")
	api.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(appCtx.Config().Web.JwtSecret),
	}))

	server = &WebServer{root: e, api: api, appCtx: appCtx}
	registerAuthRoutes()
	return server
}

// Listen starts the HTTP server on the configured address.
func (s *WebServer) Listen() error {
	web := s.appCtx.Config().Web
	addr := fmt.Sprintf("%s:%d", web.Host, web.Port)
	zap.S().Infof("Starting web server on %s", addr)
	err := s.root.Start(addr)
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// PubGET registers an unauthenticated GET route
func PubGET(path string, h echo.HandlerFunc) {
	server.root.GET(path, h)
}

// PubPOST registers an unauthenticated POST route
func PubPOST(path string, h echo.HandlerFunc) {
	server.root.POST(path, h)
}

// ApiGET registers an authenticated GET route under /api/v1
func ApiGET(path string, h echo.HandlerFunc) {
	server.api.GET(path, h)
}

// ApiPOST registers an authenticated POST route under /api/v1
func ApiPOST(path string, h echo.HandlerFunc) {
	server.api.POST(path, h)
}

// ApiPUT registers an authenticated PUT route under /api/v1
func ApiPUT(path string, h echo.HandlerFunc) {
	server.api.PUT(path, h)
}

// ApiDELETE registers an authenticated DELETE route under /api/v1
func ApiDELETE(path string, h echo.HandlerFunc) {
	server.api.DELETE(path, h)
}
