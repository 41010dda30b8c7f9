package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/joseph-ayodele/contracts-extractor/internal/common"
)

// fail writes an {error, code} body with the status common.HTTPStatus picks.
// Internal errors are logged by RequestLogger but never echoed to the client.
func (s *Server) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	status, code := common.HTTPStatus(err)

	msg := err.Error()
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		msg = appErr.Message
	}
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	c.AbortWithStatusJSON(status, gin.H{
		"error":      msg,
		"code":       code,
		"request_id": GetRequestID(c),
	})
}

func invalid(msg string, cause error) error {
	return common.NewAppError(common.CodeInvalidInput, msg, cause)
}
