package handlers

import (
	"net/http"
	"strings"

	"tiendamart/internal/common"
	"tiendamart/internal/models"
	"tiendamart/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// ProductHandlers handles HTTP requests for the catalog
type ProductHandlers struct {
	productService services.ProductServiceInterface
}

// NewProductHandlers creates a new product handlers instance
func NewProductHandlers(productService services.ProductServiceInterface) *ProductHandlers {
	return &ProductHandlers{productService: productService}
}

// CreateProductRequest represents the product creation payload. Price comes
// in as a string so the exact decimal survives JSON.
type CreateProductRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Price       string  `json:"price"`
	Stock       int     `json:"stock"`
}

// CreateProduct handles POST /products
func (h *ProductHandlers) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return common.SendValidationError(c, "name", "name is required")
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil || !price.IsPositive() {
		return common.SendValidationError(c, "price", "price must be a positive decimal")
	}
	if req.Stock < 0 {
		return common.SendValidationError(c, "stock", "stock cannot be negative")
	}

	product := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       price,
		Stock:       req.Stock,
	}
	if err := h.productService.CreateProduct(ctx, product); err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, product)
}

// GetProduct handles GET /products/:id
func (h *ProductHandlers) GetProduct(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendClientError(c, "Invalid product ID")
	}

	product, err := h.productService.GetProductByID(c.Request().Context(), id)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

// ListProducts handles GET /products
func (h *ProductHandlers) ListProducts(c echo.Context) error {
	page, size := queryPagination(c)
	result, err := h.productService.ListProducts(c.Request().Context(), page, size)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// UpdateProductRequest carries the optional catalog update fields.
type UpdateProductRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Price       *string `json:"price"`
	Stock       *int    `json:"stock"`
}

// UpdateProduct handles PUT /products/:id
func (h *ProductHandlers) UpdateProduct(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendClientError(c, "Invalid product ID")
	}

	var req UpdateProductRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	update := &models.ProductUpdate{
		Name:        req.Name,
		Description: req.Description,
		Stock:       req.Stock,
	}
	if req.Price != nil {
		price, err := decimal.NewFromString(*req.Price)
		if err != nil || !price.IsPositive() {
			return common.SendValidationError(c, "price", "price must be a positive decimal")
		}
		update.Price = &price
	}
	if req.Stock != nil && *req.Stock < 0 {
		return common.SendValidationError(c, "stock", "stock cannot be negative")
	}

	product, err := h.productService.UpdateProduct(c.Request().Context(), id, update)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

// DeleteProduct handles DELETE /products/:id
func (h *ProductHandlers) DeleteProduct(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendClientError(c, "Invalid product ID")
	}

	if err := h.productService.DeleteProduct(c.Request().Context(), id); err != nil {
		return common.SendDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
