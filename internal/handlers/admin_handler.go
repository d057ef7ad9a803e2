package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/models"
	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/storefront"
)

// AdminHandler serves /admin. Every action redirects back to the panel,
// which reloads both collections.
type AdminHandler struct {
	shop    *storefront.Shop
	timeout time.Duration
	log     zerolog.Logger
}

func NewAdminHandler(shop *storefront.Shop, timeout time.Duration, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{shop: shop, timeout: timeout, log: log}
}

// RequireAdmin sends anonymous visitors to sign in and non-admins home.
func (h *AdminHandler) RequireAdmin(c *gin.Context) {
	session := CurrentSession(c)
	if session == nil {
		c.Redirect(http.StatusSeeOther, "/auth?next=/admin")
		c.Abort()
		return
	}
	if !session.IsAdmin {
		c.Redirect(http.StatusSeeOther, "/")
		c.Abort()
		return
	}
	c.Next()
}

// Panel handles GET /admin.
func (h *AdminHandler) Panel(c *gin.Context) {
	panel, ok := h.panel(c)
	if !ok {
		return
	}
	defer panel.Close()

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()
	panel.Load(ctx)

	render(c, http.StatusOK, "admin", gin.H{
		"Title":        "Admin",
		"Categories":   models.Categories,
		"Products":     panel.Products.State(),
		"Testimonials": panel.Testimonials.State(),
	})
}

// CreateProduct handles POST /admin/products.
func (h *AdminHandler) CreateProduct(c *gin.Context) {
	var input models.ProductInput
	if err := c.ShouldBind(&input); err != nil {
		h.done(c, bindingError(err), "")
		return
	}

	var image *storefront.ImageUpload
	if header, err := c.FormFile("image"); err == nil {
		file, err := header.Open()
		if err != nil {
			h.done(c, err, "")
			return
		}
		defer file.Close()
		image = &storefront.ImageUpload{Reader: file, Name: header.Filename}
	} else if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
		h.done(c, &models.ValidationError{Field: "image", Message: "image upload failed"}, "")
		return
	}

	h.mutate(c, "Product added", func(ctx context.Context, panel *storefront.AdminPanel) error {
		return panel.AddProduct(ctx, input, image)
	})
}

// UpdateProduct handles POST /admin/products/:id.
func (h *AdminHandler) UpdateProduct(c *gin.Context) {
	var update models.ProductUpdate
	if err := c.ShouldBind(&update); err != nil {
		h.done(c, bindingError(err), "")
		return
	}
	h.mutate(c, "Product updated", func(ctx context.Context, panel *storefront.AdminPanel) error {
		return panel.UpdateProduct(ctx, c.Param("id"), update)
	})
}

// DeleteProduct handles POST /admin/products/:id/delete.
func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	h.mutate(c, "Product deleted", func(ctx context.Context, panel *storefront.AdminPanel) error {
		return panel.DeleteProduct(ctx, c.Param("id"))
	})
}

// CreateTestimonial handles POST /admin/testimonials.
func (h *AdminHandler) CreateTestimonial(c *gin.Context) {
	var input models.TestimonialInput
	if err := c.ShouldBind(&input); err != nil {
		h.done(c, bindingError(err), "")
		return
	}
	h.mutate(c, "Testimonial added", func(ctx context.Context, panel *storefront.AdminPanel) error {
		return panel.AddTestimonial(ctx, input)
	})
}

// ToggleTestimonial handles POST /admin/testimonials/:id/toggle. The form
// posts the approval state it was rendered with.
func (h *AdminHandler) ToggleTestimonial(c *gin.Context) {
	current, err := strconv.ParseBool(c.PostForm("approved"))
	if err != nil {
		h.done(c, &models.ValidationError{Field: "approved", Message: "approval state is missing"}, "")
		return
	}
	h.mutate(c, "Testimonial updated", func(ctx context.Context, panel *storefront.AdminPanel) error {
		return panel.ToggleApproval(ctx, c.Param("id"), current)
	})
}

// DeleteTestimonial handles POST /admin/testimonials/:id/delete.
func (h *AdminHandler) DeleteTestimonial(c *gin.Context) {
	h.mutate(c, "Testimonial deleted", func(ctx context.Context, panel *storefront.AdminPanel) error {
		return panel.DeleteTestimonial(ctx, c.Param("id"))
	})
}

func (h *AdminHandler) mutate(c *gin.Context, notice string, do func(context.Context, *storefront.AdminPanel) error) {
	panel, ok := h.panel(c)
	if !ok {
		return
	}
	defer panel.Close()

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	h.done(c, do(ctx, panel), notice)
}

func (h *AdminHandler) panel(c *gin.Context) (*storefront.AdminPanel, bool) {
	panel, err := h.shop.AdminPanel(CurrentSession(c))
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/")
		return nil, false
	}
	return panel, true
}

// done redirects back to the panel with a notice or an error.
func (h *AdminHandler) done(c *gin.Context, err error, notice string) {
	if err != nil {
		if statusFor(err) >= http.StatusInternalServerError {
			h.log.Warn().Err(err).Str("path", c.Request.URL.Path).Msg("admin action failed")
		}
		c.Redirect(http.StatusSeeOther, "/admin?error="+url.QueryEscape(userMessage(err)))
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin?notice="+url.QueryEscape(notice))
}
