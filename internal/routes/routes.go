package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/handlers"
	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/storefront"
)

// Deps are the collaborators the routes are built from.
type Deps struct {
	Shop          *storefront.Shop
	Auth          handlers.Authenticator
	Log           zerolog.Logger
	Timeout       time.Duration
	SessionTTL    time.Duration
	SecureCookies bool
}

// RegisterRoutes wires the pages, auth, admin and API routes onto router.
func RegisterRoutes(router *gin.Engine, deps Deps) {
	pages := handlers.NewPageHandler(deps.Shop, deps.Timeout, deps.Log)
	accounts := handlers.NewAuthHandler(deps.Auth, deps.SessionTTL, deps.Timeout, deps.SecureCookies, deps.Log)
	admin := handlers.NewAdminHandler(deps.Shop, deps.Timeout, deps.Log)
	api := handlers.NewProductHandler(deps.Shop, deps.Timeout)

	router.Use(handlers.SessionMiddleware(deps.Auth))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/", pages.Home)
	router.GET("/about", pages.About)
	router.GET("/contact", pages.ContactForm)
	router.POST("/contact", pages.SubmitContact)
	router.GET("/products", pages.Products)
	router.GET("/products/:id", pages.ProductDetail)
	router.POST("/products/:id/comments", pages.PostComment)

	authGroup := router.Group("/auth")
	{
		authGroup.GET("", accounts.Page)
		authGroup.POST("/signin", accounts.SignIn)
		authGroup.POST("/signup", accounts.SignUp)
		authGroup.POST("/signout", accounts.SignOut)
		authGroup.POST("/forgot", accounts.Forgot)
		authGroup.GET("/reset", accounts.ResetPage)
		authGroup.POST("/reset", accounts.Reset)
	}

	adminGroup := router.Group("/admin", admin.RequireAdmin)
	{
		adminGroup.GET("", admin.Panel)
		adminGroup.POST("/products", admin.CreateProduct)
		adminGroup.POST("/products/:id", admin.UpdateProduct)
		adminGroup.POST("/products/:id/delete", admin.DeleteProduct)
		adminGroup.POST("/testimonials", admin.CreateTestimonial)
		adminGroup.POST("/testimonials/:id/toggle", admin.ToggleTestimonial)
		adminGroup.POST("/testimonials/:id/delete", admin.DeleteTestimonial)
	}

	v1 := router.Group("/v1")
	{
		v1.GET("/products", api.ListProducts)
		v1.GET("/products/:id", api.GetProduct)
		v1.GET("/products/:id/comments", api.ListComments)
		v1.POST("/products/:id/comments", api.CreateComment)
		v1.GET("/testimonials", api.ListTestimonials)
		v1.POST("/products", api.CreateProduct)
		v1.PATCH("/products/:id", api.UpdateProduct)
		v1.DELETE("/products/:id", api.DeleteProduct)
	}

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/v1/") {
			c.JSON(http.StatusNotFound, handlers.ErrorResponse{Error: "not found", Kind: "not_found"})
			return
		}
		pages.NotFound(c)
	})
}
