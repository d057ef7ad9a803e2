package handlers

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/models"
	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/storefront"
	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/viewmodel"
)

// PageHandler renders the public storefront pages.
type PageHandler struct {
	shop    *storefront.Shop
	timeout time.Duration
	log     zerolog.Logger
}

func NewPageHandler(shop *storefront.Shop, timeout time.Duration, log zerolog.Logger) *PageHandler {
	return &PageHandler{shop: shop, timeout: timeout, log: log}
}

// Home handles GET /.
func (h *PageHandler) Home(c *gin.Context) {
	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	page := h.shop.Home(ctx)
	defer page.Close()

	render(c, http.StatusOK, "home", gin.H{
		"Featured":     page.Featured.State(),
		"Testimonials": page.Testimonials.State(),
	})
}

// Products handles GET /products?filter=.
func (h *PageHandler) Products(c *gin.Context) {
	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	view := h.shop.Catalog(ctx, viewmodel.ParseFilterKey(c.Query("filter")))
	defer view.Close()

	render(c, http.StatusOK, "products", gin.H{
		"Title":      "Products",
		"Filter":     string(view.Filter()),
		"Categories": models.Categories,
		"Products":   view.Visible(),
		"LoadErr":    view.State().Err,
	})
}

// ProductDetail handles GET /products/:id.
func (h *PageHandler) ProductDetail(c *gin.Context) {
	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	id := c.Param("id")
	page := h.shop.LoadProductPage(ctx, id, CurrentSession(c))
	defer page.Close()

	h.renderProduct(c, http.StatusOK, id, page.State(), "")
}

// PostComment handles POST /products/:id/comments.
func (h *PageHandler) PostComment(c *gin.Context) {
	id := c.Param("id")
	session := CurrentSession(c)
	if session == nil {
		c.Redirect(http.StatusSeeOther, "/auth?next="+url.QueryEscape("/products/"+id))
		return
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	page := h.shop.ProductPage(session)
	defer page.Close()

	text := c.PostForm("comment")
	if err := page.SubmitRelated(ctx, id, text); err != nil {
		page.LoadDetail(ctx, id)
		page.LoadRelated(ctx, id)
		h.renderProduct(c, statusFor(err), id, page.State(), text, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/products/"+url.PathEscape(id)+"?notice="+url.QueryEscape("Your comment was posted"))
}

type productState = viewmodel.DetailState[models.Product, models.Comment]

func (h *PageHandler) renderProduct(c *gin.Context, status int, id string, state productState, draft string, submitErr ...error) {
	if state.NotFound() {
		render(c, http.StatusNotFound, "notfound", gin.H{
			"Title":   "Not found",
			"Message": "This piece is not in the collection.",
			"Back":    "/products",
		})
		return
	}
	if state.Detail == nil {
		_ = c.Error(state.Err)
		render(c, http.StatusBadGateway, "error", gin.H{"Title": "Unavailable"})
		return
	}
	data := gin.H{
		"Title":     state.Detail.Title,
		"ProductID": id,
		"Product":   state.Detail,
		"Comments":  state.Related.Items,
		"LoadErr":   firstErr(state.Err, state.Related.Err),
		"Draft":     draft,
	}
	if len(submitErr) > 0 && submitErr[0] != nil {
		data["Error"] = userMessage(submitErr[0])
	}
	render(c, status, "product", data)
}

// About handles GET /about.
func (h *PageHandler) About(c *gin.Context) {
	render(c, http.StatusOK, "about", gin.H{"Title": "About"})
}

// ContactForm handles GET /contact.
func (h *PageHandler) ContactForm(c *gin.Context) {
	render(c, http.StatusOK, "contact", gin.H{"Title": "Contact", "Form": models.ContactMessage{}})
}

// SubmitContact handles POST /contact.
func (h *PageHandler) SubmitContact(c *gin.Context) {
	var msg models.ContactMessage
	if err := c.ShouldBind(&msg); err != nil {
		render(c, http.StatusBadRequest, "contact", gin.H{"Title": "Contact", "Form": msg, "Error": userMessage(bindingError(err))})
		return
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	if err := h.shop.SubmitContact(ctx, msg); err != nil {
		if statusFor(err) >= http.StatusInternalServerError {
			_ = c.Error(err)
		}
		render(c, statusFor(err), "contact", gin.H{"Title": "Contact", "Form": msg, "Error": userMessage(err)})
		return
	}
	c.Redirect(http.StatusSeeOther, "/contact?notice="+url.QueryEscape("Your message was sent. We will contact you soon!"))
}

// NotFound handles unknown routes.
func (h *PageHandler) NotFound(c *gin.Context) {
	render(c, http.StatusNotFound, "notfound", gin.H{"Title": "Not found"})
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
