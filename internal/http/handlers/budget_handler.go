// README: Budget drafting handler (POST /api/ai).
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tripbudget/internal/config"
	"tripbudget/internal/http/middleware"
	"tripbudget/internal/modules/budget"
)

type BudgetHandler struct {
	budget       *budget.Service
	logger       *zap.Logger
	maxBodyBytes int64
}

// NewBudgetHandler returns the /api/ai handler. maxBodyBytes <= 0 means config.DefaultMaxBodyBytes.
func NewBudgetHandler(svc *budget.Service, logger *zap.Logger, maxBodyBytes int64) *BudgetHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxBodyBytes <= 0 {
		maxBodyBytes = config.DefaultMaxBodyBytes
	}
	return &BudgetHandler{budget: svc, logger: logger, maxBodyBytes: maxBodyBytes}
}

// draftReq accepts the form either under "formData" or at the top level.
type draftReq struct {
	FormData *budget.FormData `json:"formData"`
	Tipo     string           `json:"tipo"`
	Modelo   string           `json:"modelo"`
	Model    string           `json:"model"`
	Fallback budget.FlexList  `json:"fallback"`
}

type draftResp struct {
	Success     bool   `json:"success"`
	Result      string `json:"result"`
	ModeloUsado string `json:"modeloUsado"`
}

// Draft handles /api/ai. OPTIONS answers the preflight, anything but POST is 405.
func (h *BudgetHandler) Draft(c *gin.Context) {
	switch c.Request.Method {
	case http.MethodOptions:
		c.Status(http.StatusOK)
		return
	case http.MethodPost:
	default:
		writeError(c, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(c, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(c, http.StatusBadRequest, "invalid body")
		return
	}
	var req draftReq
	form := budget.FormData{}
	if len(strings.TrimSpace(string(body))) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(c, http.StatusBadRequest, "invalid json")
			return
		}
		if req.FormData != nil {
			form = *req.FormData
		} else if err := json.Unmarshal(body, &form); err != nil {
			writeError(c, http.StatusBadRequest, "invalid json")
			return
		}
	}

	model := req.Modelo
	if model == "" {
		model = req.Model
	}
	if model == "" {
		model = budget.AutoModel
	}

	draft, err := h.budget.Draft(c.Request.Context(), middleware.RequestID(c), budget.DraftRequest{
		Workflow:   req.Tipo,
		Form:       form,
		Preference: budget.ModelPreference{Model: model, Fallback: []string(req.Fallback)},
	})
	if err != nil {
		h.logger.Error("budget draft failed", zap.String("request_id", middleware.RequestID(c)), zap.Error(err))
		writeBudgetError(c, err)
		return
	}

	writeJSON(c, http.StatusOK, draftResp{Success: true, Result: draft.Text, ModeloUsado: draft.Model})
}
