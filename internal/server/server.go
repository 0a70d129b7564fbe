package server

import (
	"net/http"

	"bakery/internal/config"
	"bakery/internal/handler"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// New はミドルウェアとルートを組んだechoを返す。
func New(cfg config.Config, productH *handler.ProductHandler, orderH *handler.OrderHandler, notifH *handler.NotificationHandler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.FEURL},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
	}))

	productH.RegisterRoutes(e)
	orderH.RegisterRoutes(e)
	notifH.RegisterRoutes(e)

	return e
}

func Start(e *echo.Echo, addr string) error {
	return e.Start(addr)
}
