package helpers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mreyesc/parkeo/internal/apperr"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func HTTPStatusText(code int) string {
	return http.StatusText(code)
}

func RespondWithError(c *gin.Context, statusCode int, customMessage string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   HTTPStatusText(statusCode),
		Message: customMessage,
	})
}

// RespondWithAppError maps a core error to its HTTP status. Internal
// causes are logged, never sent to the caller.
func RespondWithAppError(c *gin.Context, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		log.Printf("unexpected error on %s: %v", c.FullPath(), err)
		RespondWithError(c, http.StatusInternalServerError, "Something went wrong.")
		return
	}

	switch appErr.Kind {
	case apperr.KindValidation:
		RespondWithError(c, http.StatusBadRequest, appErr.Message)
	case apperr.KindConflict:
		RespondWithError(c, http.StatusConflict, appErr.Message)
	case apperr.KindNotFound:
		RespondWithError(c, http.StatusNotFound, appErr.Message)
	case apperr.KindGone:
		RespondWithError(c, http.StatusGone, appErr.Message)
	case apperr.KindUnauthorized:
		RespondWithError(c, http.StatusUnauthorized, appErr.Message)
	case apperr.KindGateway:
		log.Printf("gateway error on %s: %v", c.FullPath(), appErr)
		RespondWithError(c, http.StatusBadGateway, appErr.Message)
	default:
		log.Printf("internal error on %s: %v", c.FullPath(), appErr)
		RespondWithError(c, http.StatusInternalServerError, "Something went wrong.")
	}
}
