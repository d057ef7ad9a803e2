package handlers

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/models"
)

// Authenticator is the account side of the storefront.
type Authenticator interface {
	SessionResolver
	SignIn(ctx context.Context, email, password string) (*models.Session, error)
	SignUp(ctx context.Context, email, password, fullName string) (*models.Session, error)
	SignOut(token string)
	RequestPasswordReset(ctx context.Context, email, redirectTo string) error
	ResetPassword(ctx context.Context, userID, token, password string) error
}

type AuthHandler struct {
	auth       Authenticator
	sessionTTL time.Duration
	timeout    time.Duration
	secure     bool
	log        zerolog.Logger
}

func NewAuthHandler(auth Authenticator, sessionTTL, timeout time.Duration, secureCookies bool, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, sessionTTL: sessionTTL, timeout: timeout, secure: secureCookies, log: log}
}

type signInForm struct {
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
	FullName string `form:"full_name"`
}

// Page handles GET /auth. Signed-in visitors go home.
func (h *AuthHandler) Page(c *gin.Context) {
	if CurrentSession(c) != nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	render(c, http.StatusOK, "auth", gin.H{"Title": "Sign in", "Next": c.Query("next")})
}

// SignIn handles POST /auth/signin.
func (h *AuthHandler) SignIn(c *gin.Context) {
	h.authenticate(c, func(ctx context.Context, f signInForm) (*models.Session, error) {
		return h.auth.SignIn(ctx, f.Email, f.Password)
	})
}

// SignUp handles POST /auth/signup.
func (h *AuthHandler) SignUp(c *gin.Context) {
	h.authenticate(c, func(ctx context.Context, f signInForm) (*models.Session, error) {
		return h.auth.SignUp(ctx, f.Email, f.Password, f.FullName)
	})
}

func (h *AuthHandler) authenticate(c *gin.Context, do func(context.Context, signInForm) (*models.Session, error)) {
	var form signInForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusBadRequest, "auth", gin.H{"Title": "Sign in", "Next": c.Query("next"), "Email": form.Email, "Error": userMessage(bindingError(err))})
		return
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	session, err := do(ctx, form)
	if err != nil {
		if statusFor(err) >= http.StatusInternalServerError {
			_ = c.Error(err)
		}
		render(c, statusFor(err), "auth", gin.H{"Title": "Sign in", "Next": c.Query("next"), "Email": form.Email, "Error": userMessage(err)})
		return
	}

	h.setSessionCookie(c, session.Token, int(h.sessionTTL.Seconds()))
	h.log.Info().Str("user_id", session.UserID).Bool("admin", session.IsAdmin).Msg("signed in")
	c.Redirect(http.StatusSeeOther, safeNext(c.Query("next")))
}

// SignOut handles POST /auth/signout.
func (h *AuthHandler) SignOut(c *gin.Context) {
	if session := CurrentSession(c); session != nil {
		h.auth.SignOut(session.Token)
	}
	h.setSessionCookie(c, "", -1)
	c.Redirect(http.StatusSeeOther, "/")
}

// Forgot handles POST /auth/forgot.
func (h *AuthHandler) Forgot(c *gin.Context) {
	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	redirect := requestOrigin(c) + "/auth/reset"
	if err := h.auth.RequestPasswordReset(ctx, c.PostForm("email"), redirect); err != nil {
		if statusFor(err) >= http.StatusInternalServerError {
			_ = c.Error(err)
		}
		render(c, statusFor(err), "auth", gin.H{"Title": "Sign in", "Error": userMessage(err)})
		return
	}
	c.Redirect(http.StatusSeeOther, "/auth?notice="+url.QueryEscape("If the address has an account, a reset link is on its way."))
}

// ResetPage handles GET /auth/reset.
func (h *AuthHandler) ResetPage(c *gin.Context) {
	render(c, http.StatusOK, "reset", gin.H{
		"Title": "Reset password",
		"User":  c.Query("user"),
		"Token": c.Query("token"),
	})
}

// Reset handles POST /auth/reset.
func (h *AuthHandler) Reset(c *gin.Context) {
	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	userID, token := c.PostForm("user"), c.PostForm("token")
	if err := h.auth.ResetPassword(ctx, userID, token, c.PostForm("password")); err != nil {
		if statusFor(err) >= http.StatusInternalServerError {
			_ = c.Error(err)
		}
		render(c, statusFor(err), "reset", gin.H{"Title": "Reset password", "User": userID, "Token": token, "Error": userMessage(err)})
		return
	}
	c.Redirect(http.StatusSeeOther, "/auth?notice="+url.QueryEscape("Password updated, please sign in."))
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, maxAge, "/", "", h.secure, true)
}

// safeNext only allows local redirect targets.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return next
}

func requestOrigin(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}
