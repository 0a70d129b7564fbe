package handler

import (
	"bakery/internal/notify"

	"github.com/labstack/echo/v4"
)

// /notifications のwebsocket購読口
type NotificationHandler struct {
	hub *notify.Hub
}

func NewNotificationHandler(hub *notify.Hub) *NotificationHandler {
	return &NotificationHandler{hub: hub}
}

func (h *NotificationHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/notifications", h.subscribe)
}

func (h *NotificationHandler) subscribe(c echo.Context) error {
	return notify.ServeWS(h.hub, c.Response(), c.Request())
}
