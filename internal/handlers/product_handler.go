package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/models"
	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/storefront"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// ProductHandler serves the JSON API under /v1.
type ProductHandler struct {
	shop    *storefront.Shop
	timeout time.Duration
}

func NewProductHandler(shop *storefront.Shop, timeout time.Duration) *ProductHandler {
	return &ProductHandler{shop: shop, timeout: timeout}
}

type ProductListResponse struct {
	Category string           `json:"category,omitempty"`
	Limit    int              `json:"limit"`
	Products []models.Product `json:"products"`
}

// ListProducts handles GET /v1/products.
func (h *ProductHandler) ListProducts(c *gin.Context) {
	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	category := c.Query("category")
	limit := getLimitParam(c)

	view := h.shop.ProductList(category, limit)
	defer view.Close()
	view.Load(ctx)

	state := view.State()
	if state.Err != nil {
		respondError(c, state.Err)
		return
	}
	c.JSON(http.StatusOK, ProductListResponse{Category: category, Limit: limit, Products: state.Items})
}

// GetProduct handles GET /v1/products/:id.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	page := h.shop.ProductPage(CurrentSession(c))
	defer page.Close()
	page.LoadDetail(ctx, c.Param("id"))

	state := page.State()
	if state.Err != nil {
		respondError(c, state.Err)
		return
	}
	c.JSON(http.StatusOK, state.Detail)
}

// ListComments handles GET /v1/products/:id/comments.
func (h *ProductHandler) ListComments(c *gin.Context) {
	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	page := h.shop.ProductPage(CurrentSession(c))
	defer page.Close()
	page.LoadRelated(ctx, c.Param("id"))

	related := page.State().Related
	if related.Err != nil {
		respondError(c, related.Err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": related.Items})
}

type commentRequest struct {
	Comment string `json:"comment" form:"comment"`
}

// CreateComment handles POST /v1/products/:id/comments. The response carries
// the refetched comment list.
func (h *ProductHandler) CreateComment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, bindingError(err))
		return
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	productID := c.Param("id")
	page := h.shop.ProductPage(CurrentSession(c))
	defer page.Close()

	if err := page.SubmitRelated(ctx, productID, req.Comment); err != nil {
		respondError(c, err)
		return
	}
	related := page.State().Related
	if related.Err != nil {
		respondError(c, related.Err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comments": related.Items})
}

// ListTestimonials handles GET /v1/testimonials.
func (h *ProductHandler) ListTestimonials(c *gin.Context) {
	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	view := h.shop.ApprovedTestimonials()
	defer view.Close()
	view.Load(ctx)

	state := view.State()
	if state.Err != nil {
		respondError(c, state.Err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"testimonials": state.Items})
}

// CreateProduct handles POST /v1/products.
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	panel, ok := h.adminPanel(c)
	if !ok {
		return
	}
	defer panel.Close()

	var input models.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, bindingError(err))
		return
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	if err := panel.AddProduct(ctx, input, nil); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"products": panel.Products.Items()})
}

// UpdateProduct handles PATCH /v1/products/:id.
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	panel, ok := h.adminPanel(c)
	if !ok {
		return
	}
	defer panel.Close()

	var update models.ProductUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		respondError(c, bindingError(err))
		return
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	if err := panel.UpdateProduct(ctx, c.Param("id"), update); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": panel.Products.Items()})
}

// DeleteProduct handles DELETE /v1/products/:id.
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	panel, ok := h.adminPanel(c)
	if !ok {
		return
	}
	defer panel.Close()

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	if err := panel.DeleteProduct(ctx, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "product deleted"})
}

func (h *ProductHandler) adminPanel(c *gin.Context) (*storefront.AdminPanel, bool) {
	panel, err := h.shop.AdminPanel(CurrentSession(c))
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return panel, true
}

// getLimitParam reads ?limit=, falling back to defaultLimit.
func getLimitParam(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 || limit > maxLimit {
		return defaultLimit
	}
	return limit
}

