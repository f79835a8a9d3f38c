package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"blogpress/internal/app"
	"blogpress/internal/transport/http/response"
)

// respondServiceError maps the app package sentinels onto HTTP statuses.
// Authorization failures are uniformly 403; anything unrecognized becomes a
// generic 500 so internals never leak.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, app.ErrEmailExists):
		response.Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, app.ErrUnknownUser):
		response.Error(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, app.ErrInvalidCredential):
		response.Error(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, app.ErrForbidden):
		response.Error(c, http.StatusForbidden, err.Error())
	case errors.Is(err, app.ErrPostNotFound), errors.Is(err, app.ErrCommentNotFound):
		response.Error(c, http.StatusNotFound, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "internal server error")
	}
}
