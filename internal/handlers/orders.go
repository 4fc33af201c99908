package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/banyumasfresh/shop/internal/events"
	"github.com/banyumasfresh/shop/internal/service/order"
)

type OrderHandler struct {
	Service  *order.Service
	Producer *events.Producer
}

// GetOrders lists every order, newest first, with the buyer resolved.
func (h *OrderHandler) GetOrders(c echo.Context) error {
	orders, err := h.Service.ListOrders(c.Request().Context())
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, orders)
}

// GetOrder fetches one order with items, products and categories resolved.
// Missing ids answer 500, not 404; existing clients depend on it.
func (h *OrderHandler) GetOrder(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	o, err := h.Service.GetOrder(c.Request().Context(), id)
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, o)
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	var req struct {
		OrderItems       []order.LineInput `json:"orderItems"`
		ShippingAddress1 string            `json:"shippingAddress1"`
		ShippingAddress2 string            `json:"shippingAddress2"`
		City             string            `json:"city"`
		Zip              string            `json:"zip"`
		Country          string            `json:"country"`
		Phone            string            `json:"phone"`
		Status           string            `json:"status"`
		User             uint              `json:"user"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	o, err := h.Service.CreateOrder(c.Request().Context(), order.CreateOrderInput{
		Items:            req.OrderItems,
		ShippingAddress1: req.ShippingAddress1,
		ShippingAddress2: req.ShippingAddress2,
		City:             req.City,
		Zip:              req.Zip,
		Country:          req.Country,
		Phone:            req.Phone,
		Status:           req.Status,
		UserID:           req.User,
	})
	if err != nil {
		if errors.Is(err, order.ErrValidation) {
			return errorResponse(c, http.StatusBadRequest, err)
		}
		return errorResponse(c, http.StatusBadRequest, errors.New("the order cannot be created"))
	}

	publish(c, h.Producer, "order_events", fmt.Sprint(o.UserID), map[string]any{
		"type":    "order_created",
		"orderID": o.ID,
		"userID":  o.UserID,
		"total":   o.TotalPrice,
	})

	return c.JSON(http.StatusOK, o)
}

// UpdateOrderStatus replaces the status label. Any string is accepted.
func (h *OrderHandler) UpdateOrderStatus(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	o, err := h.Service.UpdateStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, errors.New("the order cannot be updated"))
	}

	publish(c, h.Producer, "order_events", fmt.Sprint(o.UserID), map[string]any{
		"type":    "order_status_updated",
		"orderID": o.ID,
		"status":  o.Status,
	})

	return c.JSON(http.StatusOK, o)
}

func (h *OrderHandler) DeleteOrder(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	if _, err := h.Service.DeleteOrder(c.Request().Context(), id); err != nil {
		if errors.Is(err, order.ErrNotFound) {
			return c.JSON(http.StatusNotFound, Response{Success: false, Message: "order not found!"})
		}
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	publish(c, h.Producer, "order_events", fmt.Sprint(id), map[string]any{
		"type":    "order_deleted",
		"orderID": id,
	})

	return c.JSON(http.StatusOK, Response{Success: true, Message: "the order is deleted!"})
}

func (h *OrderHandler) GetOrderCount(c echo.Context) error {
	count, err := h.Service.CountOrders(c.Request().Context())
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"orderCount": count})
}

// GetTotalSales reports aggregate revenue. An empty order set yields 0.
func (h *OrderHandler) GetTotalSales(c echo.Context) error {
	total, err := h.Service.TotalRevenue(c.Request().Context())
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"totalsales": total})
}

func (h *OrderHandler) GetUserOrders(c echo.Context) error {
	userID, err := parseID(c, "userid")
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	orders, err := h.Service.ListUserOrders(c.Request().Context(), userID)
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, orders)
}
