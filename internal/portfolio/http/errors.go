package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/devfolio/devfolio/internal/portfolio/domain"
	"github.com/devfolio/devfolio/internal/portfolio/service"
	"github.com/devfolio/devfolio/pkg/httpx"
	"github.com/devfolio/devfolio/pkg/slogx"
)

// apiError is the error envelope every failed request gets.
type apiError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func writeError(w http.ResponseWriter, status int, code, desc string) {
	httpx.WriteJSON(w, status, apiError{Error: code, ErrorDescription: desc})
}

// notFoundBody is the single body used for missing resources AND ownership
// denials. The two cases must stay byte-identical on the wire so probing a
// foreign resource id reveals nothing about its existence.
func writeNotFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, "not_found", "resource not found")
}

// writeServiceError maps service-layer sentinels onto HTTP. Anything not
// explicitly mapped is a 500 with the cause only in the logs.
func writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	log := slogx.FromContext(ctx)

	switch {
	case errors.Is(err, service.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, "validation_failed", validationDetail(err))
	case errors.Is(err, domain.ErrInvalidSections):
		writeError(w, http.StatusUnprocessableEntity, "validation_failed",
			"sections must be one of: all, projects, achievements")
	case errors.Is(err, service.ErrEmailTaken):
		writeError(w, http.StatusConflict, "email_taken", "an account with this email already exists")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "incorrect email or password")
	case errors.Is(err, service.ErrResourceNotFound):
		writeNotFound(w)
	case errors.Is(err, service.ErrNotOwner):
		// Logged above the guard already; the response must not differ from
		// a genuinely missing resource.
		writeNotFound(w)
	default:
		log.Error("request failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "something went wrong")
	}
}

// validationDetail strips the sentinel prefix so the caller sees only the
// field-level message.
func validationDetail(err error) string {
	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, service.ErrValidation.Error()+": "); ok {
		return rest
	}
	return "invalid request"
}
