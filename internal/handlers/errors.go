package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/auth"
	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/media"
	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/models"
	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/viewmodel"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

// statusFor maps an error onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, auth.ErrInvalidResetToken), errors.Is(err, media.ErrDisabled):
		return http.StatusBadRequest
	}
	switch viewmodel.KindOf(err) {
	case viewmodel.NoError:
		return http.StatusOK
	case viewmodel.NotFound:
		return http.StatusNotFound
	case viewmodel.ValidationError:
		return http.StatusBadRequest
	case viewmodel.Unauthenticated:
		return http.StatusUnauthorized
	case viewmodel.Forbidden:
		return http.StatusForbidden
	case viewmodel.Busy:
		return http.StatusConflict
	}
	return http.StatusBadGateway
}

// userMessage is the text shown to visitors. Backend details stay in the log.
func userMessage(err error) string {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.Message
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrEmailTaken),
		errors.Is(err, auth.ErrInvalidResetToken),
		errors.Is(err, media.ErrDisabled):
		return err.Error()
	}
	switch viewmodel.KindOf(err) {
	case viewmodel.NotFound:
		return "not found"
	case viewmodel.Unauthenticated, viewmodel.Forbidden, viewmodel.Busy:
		return err.Error()
	}
	return "the store is unreachable right now, please try again"
}

// respondError writes err as JSON and logs backend failures.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, ErrorResponse{Error: userMessage(err), Kind: viewmodel.KindOf(err).String()})
}

// bindingError converts a gin binding failure into a ValidationError.
func bindingError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &models.ValidationError{Message: "malformed request"}
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	msg := fmt.Sprintf("%s is invalid", field)
	if fe.Tag() == "required" {
		msg = fmt.Sprintf("%s is required", field)
	}
	return &models.ValidationError{Field: field, Message: msg}
}
