package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/banyumasfresh/shop/internal/events"
	"github.com/banyumasfresh/shop/internal/service/order"
)

// CartHandler exposes standalone line items: rows a client parks before (or
// without) an order claiming them.
type CartHandler struct {
	Service  *order.Service
	Producer *events.Producer
}

func (h *CartHandler) GetItems(c echo.Context) error {
	items, err := h.Service.ListItems(c.Request().Context())
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CartHandler) AddItem(c echo.Context) error {
	var req struct {
		Quantity uint `json:"quantity"`
		Product  uint `json:"product"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	item, err := h.Service.CreateItem(c.Request().Context(), req.Product, req.Quantity)
	if err != nil {
		if errors.Is(err, order.ErrValidation) {
			return errorResponse(c, http.StatusBadRequest, err)
		}
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	publish(c, h.Producer, "order_events", fmt.Sprint(item.ID), map[string]any{
		"type":      "cart_item_added",
		"itemID":    item.ID,
		"productID": item.ProductID,
		"quantity":  item.Quantity,
	})

	return c.JSON(http.StatusCreated, item)
}

func (h *CartHandler) UpdateItem(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var req struct {
		Quantity uint `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	item, err := h.Service.UpdateItemQuantity(c.Request().Context(), id, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrNotFound):
			return c.JSON(http.StatusNotFound, Response{Success: false, Error: "Item not found"})
		case errors.Is(err, order.ErrValidation):
			return errorResponse(c, http.StatusBadRequest, err)
		}
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusOK, item)
}

func (h *CartHandler) DeleteItem(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	removed, err := h.Service.DeleteItem(c.Request().Context(), id)
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	if !removed {
		return c.JSON(http.StatusNotFound, Response{Success: false, Error: "Item not found"})
	}

	publish(c, h.Producer, "order_events", fmt.Sprint(id), map[string]any{
		"type":   "cart_item_deleted",
		"itemID": id,
	})

	return c.JSON(http.StatusOK, Response{Success: true, Message: "Item deleted successfully"})
}
