// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Success: false, Error: msg})
}

// writeBudgetError reports a failed draft. Extraction and generation failures are
// 500 with the error message.
func writeBudgetError(c *gin.Context, err error) {
	msg := err.Error()
	if msg == "" {
		msg = "Erro interno"
	}
	writeError(c, http.StatusInternalServerError, msg)
}
