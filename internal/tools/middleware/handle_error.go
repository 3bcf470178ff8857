package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// HandleError writes the error response and logs it through the request
// logger when one is registered. Callers in middleware positions still need
// to Abort after it.
func HandleError(ctx *gin.Context, status int, message string, err error) {
	if raw, exists := ctx.Get("logger"); exists {
		if log, ok := raw.(*zerolog.Logger); ok {
			log.
				Error().
				Err(err).
				Int("status", status).
				Msg(message)
		}
	}

	response := errorResponse{Error: message}
	if err != nil {
		response.Detail = err.Error()
	}

	ctx.JSON(status, response)
}
