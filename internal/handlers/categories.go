package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/banyumasfresh/shop/internal/events"
	"github.com/banyumasfresh/shop/internal/models"
)

type CategoryHandler struct {
	DB       *gorm.DB
	Producer *events.Producer
}

func (h *CategoryHandler) GetCategories(c echo.Context) error {
	var categories []models.Category
	if err := h.DB.Find(&categories).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) GetCategory(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var category models.Category
	if err := h.DB.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, Response{Success: false, Message: "The category with the given ID was not found."})
		}
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var req struct {
		Name  string `json:"name"`
		Icon  string `json:"icon"`
		Color string `json:"color"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	category := models.Category{Name: req.Name, Icon: req.Icon, Color: req.Color}
	if err := h.DB.Create(&category).Error; err != nil {
		return errorResponse(c, http.StatusBadRequest, errors.New("the category cannot be created"))
	}

	publish(c, h.Producer, "product_events", fmt.Sprint(category.ID), map[string]any{
		"type":       "category_created",
		"categoryID": category.ID,
		"name":       category.Name,
	})

	return c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var req struct {
		Name  string `json:"name"`
		Icon  string `json:"icon"`
		Color string `json:"color"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var category models.Category
	if err := h.DB.First(&category, id).Error; err != nil {
		return errorResponse(c, http.StatusBadRequest, errors.New("the category cannot be updated"))
	}

	category.Name = req.Name
	category.Icon = req.Icon
	category.Color = req.Color
	if err := h.DB.Save(&category).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	res := h.DB.Delete(&models.Category{}, id)
	if res.Error != nil {
		return errorResponse(c, http.StatusInternalServerError, res.Error)
	}
	if res.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, Response{Success: false, Message: "category not found!"})
	}

	publish(c, h.Producer, "product_events", fmt.Sprint(id), map[string]any{
		"type":       "category_deleted",
		"categoryID": id,
	})

	return c.JSON(http.StatusOK, Response{Success: true, Message: "the category is deleted!"})
}
