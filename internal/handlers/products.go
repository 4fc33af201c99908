package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/banyumasfresh/shop/internal/events"
	"github.com/banyumasfresh/shop/internal/files"
	"github.com/banyumasfresh/shop/internal/models"
	"github.com/banyumasfresh/shop/internal/service/search"
	"github.com/banyumasfresh/shop/internal/util"
)

const maxGalleryImages = 10

type ProductHandler struct {
	DB       *gorm.DB
	ES       *elasticsearch.Client
	Index    string
	Producer *events.Producer
	Files    *files.Store
}

type productRequest struct {
	Name            string `json:"name" form:"name"`
	Description     string `json:"description" form:"description"`
	RichDescription string `json:"richDescription" form:"richDescription"`
	Brand           string `json:"brand" form:"brand"`
	Price           string `json:"price" form:"price"`
	Category        uint   `json:"category" form:"category"`
	CountInStock    uint   `json:"countInStock" form:"countInStock"`
	Rating          float64 `json:"rating" form:"rating"`
	NumReviews      uint   `json:"numReviews" form:"numReviews"`
	IsFeatured      bool   `json:"isFeatured" form:"isFeatured"`
}

// GetProducts lists products, optionally filtered by a comma-separated list
// of category ids (?categories=2,7), with the category resolved.
func (h *ProductHandler) GetProducts(c echo.Context) error {
	q := h.DB.Model(&models.Product{}).Preload("Category")

	if raw := c.QueryParam("categories"); raw != "" {
		var ids []uint
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return errorResponse(c, http.StatusBadRequest, fmt.Errorf("invalid category id %q", part))
			}
			ids = append(ids, uint(id))
		}
		q = q.Where("category_id IN ?", ids)
	}

	var products []models.Product
	if err := q.Find(&products).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, products)
}

// GetSuggestions returns up to five products whose name matches the search
// prefix.
func (h *ProductHandler) GetSuggestions(c echo.Context) error {
	prefix := c.QueryParam("search")
	if prefix == "" {
		return c.JSON(http.StatusOK, []models.Product{})
	}
	if h.ES == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "search is not configured")
	}

	products, err := search.Suggest(c.Request().Context(), h.ES, h.Index, prefix, 5)
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) SearchProducts(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query error")
	}
	if h.ES == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "search is not configured")
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	from, size := util.Calculate(page, size)

	total, products, err := search.Search(c.Request().Context(), h.ES, h.Index, q, from, size)
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"total": total, "products": products})
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var product models.Product
	if err := h.DB.Preload("Category").First(&product, id).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, product)
}

// CreateProduct accepts a multipart form: product fields plus a required
// image file.
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var category models.Category
	if err := h.DB.First(&category, req.Category).Error; err != nil {
		return errorResponse(c, http.StatusBadRequest, errors.New("Invalid Category"))
	}

	file, err := c.FormFile("image")
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, errors.New("No image in the request"))
	}
	imageURL, err := h.Files.Save(file)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, errors.New("invalid price"))
	}

	product := models.Product{
		Name:            req.Name,
		Description:     req.Description,
		RichDescription: req.RichDescription,
		Image:           imageURL,
		Brand:           req.Brand,
		Price:           price,
		CategoryID:      req.Category,
		CountInStock:    req.CountInStock,
		Rating:          req.Rating,
		NumReviews:      req.NumReviews,
		IsFeatured:      req.IsFeatured,
	}
	if err := h.DB.Create(&product).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, errors.New("The product cannot be created"))
	}

	h.index(c, &product)
	publish(c, h.Producer, "product_events", fmt.Sprint(product.ID), map[string]any{
		"type":      "product_created",
		"productID": product.ID,
		"name":      product.Name,
	})

	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, errors.New("Invalid Product Id"))
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var category models.Category
	if err := h.DB.First(&category, req.Category).Error; err != nil {
		return errorResponse(c, http.StatusBadRequest, errors.New("Invalid Category"))
	}

	var product models.Product
	if err := h.DB.First(&product, id).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, errors.New("the product cannot be updated"))
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, errors.New("invalid price"))
	}

	product.Name = req.Name
	product.Description = req.Description
	product.RichDescription = req.RichDescription
	product.Brand = req.Brand
	product.Price = price
	product.CategoryID = req.Category
	product.CountInStock = req.CountInStock
	product.Rating = req.Rating
	product.NumReviews = req.NumReviews
	product.IsFeatured = req.IsFeatured

	if err := h.DB.Save(&product).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	h.index(c, &product)
	publish(c, h.Producer, "product_events", fmt.Sprint(product.ID), map[string]any{
		"type":      "product_updated",
		"productID": product.ID,
		"name":      product.Name,
	})

	return c.JSON(http.StatusOK, product)
}

// UpdateGallery replaces the product's gallery with up to ten uploaded images.
func (h *ProductHandler) UpdateGallery(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, errors.New("Invalid Product Id"))
	}

	form, err := c.MultipartForm()
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	uploads := form.File["images"]
	if len(uploads) > maxGalleryImages {
		uploads = uploads[:maxGalleryImages]
	}

	var paths []string
	for _, fh := range uploads {
		url, err := h.Files.Save(fh)
		if err != nil {
			return errorResponse(c, http.StatusBadRequest, err)
		}
		paths = append(paths, url)
	}

	var product models.Product
	if err := h.DB.First(&product, id).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, errors.New("the gallery cannot be updated"))
	}

	product.Images = paths
	if err := h.DB.Save(&product).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	res := h.DB.Delete(&models.Product{}, id)
	if res.Error != nil {
		return errorResponse(c, http.StatusInternalServerError, res.Error)
	}
	if res.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, Response{Success: false, Message: "product not found!"})
	}

	if h.ES != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()
		if err := search.DeleteProduct(ctx, h.ES, h.Index, id); err != nil {
			c.Logger().Errorf("ES delete error: %v", err)
		}
	}
	publish(c, h.Producer, "product_events", fmt.Sprint(id), map[string]any{
		"type":      "product_deleted",
		"productID": id,
	})

	return c.JSON(http.StatusOK, Response{Success: true, Message: "the product is deleted!"})
}

func (h *ProductHandler) GetProductCount(c echo.Context) error {
	var count int64
	if err := h.DB.Model(&models.Product{}).Count(&count).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"productCount": count})
}

func (h *ProductHandler) GetFeaturedProducts(c echo.Context) error {
	count := parseIntDefault(c.Param("count"), 0)

	q := h.DB.Where("is_featured = ?", true)
	if count > 0 {
		q = q.Limit(count)
	}

	var products []models.Product
	if err := q.Find(&products).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, products)
}

// index mirrors the product into the search index, best-effort.
func (h *ProductHandler) index(c echo.Context, p *models.Product) {
	if h.ES == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := search.IndexProduct(ctx, h.ES, h.Index, p); err != nil {
		c.Logger().Errorf("ES index error: %v", err)
	}
}
