package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/zvitly/gradewatch-backend/internal/model"
	"github.com/zvitly/gradewatch-backend/internal/repository"
	"github.com/zvitly/gradewatch-backend/internal/response"
	"github.com/zvitly/gradewatch-backend/internal/service"
	"github.com/zvitly/gradewatch-backend/internal/validator"
)

// WebhookHandler receives cell-change notifications from the spreadsheet
// edit trigger. Authentication (shared secret) happens in middleware before
// this handler runs.
type WebhookHandler struct {
	ingest *service.IngestService
	log    zerolog.Logger
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(ingest *service.IngestService, log zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{
		ingest: ingest,
		log:    log.With().Str("component", "webhook_handler").Logger(),
	}
}

// HandleGradeChange godoc
// POST /webhook/grades
func (h *WebhookHandler) HandleGradeChange(c *gin.Context) {
	var req model.GradeWebhookRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	eventID, err := h.ingest.Ingest(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, repository.ErrGroupNotFound) {
			h.log.Warn().Str("spreadsheet_id", req.SpreadsheetID).Msg("Webhook for unknown spreadsheet")
			response.Fail(c, http.StatusNotFound, response.ErrGroupNotFound)
			return
		}
		h.log.Error().Err(err).Msg("Webhook ingestion failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, model.GradeWebhookResponse{
		Status:  "ok",
		EventID: eventID,
	})
}
