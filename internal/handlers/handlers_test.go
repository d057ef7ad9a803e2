package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/auth"
	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/models"
	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/remote"
	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/viewmodel"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{remote.NotFound("products", "1"), http.StatusNotFound},
		{&models.ValidationError{Message: "bad"}, http.StatusBadRequest},
		{viewmodel.ErrUnauthenticated, http.StatusUnauthorized},
		{viewmodel.ErrForbidden, http.StatusForbidden},
		{viewmodel.ErrBusy, http.StatusConflict},
		{auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{auth.ErrEmailTaken, http.StatusConflict},
		{remote.Transport("list", errors.New("dial tcp: refused")), http.StatusBadGateway},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}

func TestUserMessageHidesBackendDetails(t *testing.T) {
	msg := userMessage(remote.Transport("list", errors.New("dial tcp 10.0.0.5:27017: refused")))
	assert.NotContains(t, msg, "10.0.0.5")
	assert.Equal(t, "title is required", userMessage(&models.ValidationError{Field: "title", Message: "title is required"}))
}

func TestBindingError(t *testing.T) {
	var input models.ProductInput
	v := validator.New()
	v.SetTagName("binding")
	err := v.Struct(input)
	require.Error(t, err)

	var verr *models.ValidationError
	require.ErrorAs(t, bindingError(err), &verr)
	assert.Equal(t, "title", verr.Field)
	assert.Equal(t, "title is required", verr.Message)

	require.ErrorAs(t, bindingError(errors.New("unexpected EOF")), &verr)
	assert.Equal(t, "malformed request", verr.Message)
}

func TestSafeNext(t *testing.T) {
	assert.Equal(t, "/products/1", safeNext("/products/1"))
	assert.Equal(t, "/", safeNext(""))
	assert.Equal(t, "/", safeNext("https://evil.example"))
	assert.Equal(t, "/", safeNext("//evil.example"))
}

type staticResolver map[string]*models.Session

func (r staticResolver) CurrentSession(token string) *models.Session {
	return r[token]
}

func TestSessionMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	session := &models.Session{Token: "abc", UserID: "u1"}
	router := gin.New()
	router.Use(SessionMiddleware(staticResolver{"abc": session}))
	router.GET("/whoami", func(c *gin.Context) {
		if s := CurrentSession(c); s != nil {
			c.String(http.StatusOK, s.UserID)
			return
		}
		c.String(http.StatusOK, "anonymous")
	})

	cases := map[string]func(*http.Request){
		"u1":        func(r *http.Request) { r.AddCookie(&http.Cookie{Name: SessionCookie, Value: "abc"}) },
		"anonymous": func(r *http.Request) { r.AddCookie(&http.Cookie{Name: SessionCookie, Value: "nope"}) },
	}
	for want, prepare := range cases {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		prepare(req)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, want, w.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer abc")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "u1", w.Body.String())
}

func TestLoadTemplates(t *testing.T) {
	tmpl, err := LoadTemplates()
	require.NoError(t, err)
	for _, name := range []string{"home", "products", "product", "about", "contact", "auth", "reset", "admin", "notfound", "error"} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
}
