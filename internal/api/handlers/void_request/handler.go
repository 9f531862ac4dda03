package void_request

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/apiwat1229/ServiceHub-sub002/internal/api/handlers"
	"github.com/apiwat1229/ServiceHub-sub002/internal/api/middleware"
	"github.com/apiwat1229/ServiceHub-sub002/internal/service/approvals"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidApprovalID  = "некорректный идентификатор заявки"
	msgApprovalNotFound   = "заявка не найдена"
	msgNotApproved        = "аннулировать можно только согласованную заявку"
	msgForbidden          = "недостаточно прав для аннулирования"
)

// VoidRequest HTTP request model
type VoidRequest struct {
	Remark *string `json:"remark,omitempty"`
}

type Handler struct {
	service ApprovalService
	logger  Logger
}

func NewHandler(service ApprovalService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/approvals/{id}/void
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidApprovalID)
		return
	}

	var req VoidRequest
	if r.ContentLength > 0 {
		if err := handlers.DecodeJSON(r, &req); err != nil {
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
			return
		}
	}

	actor := middleware.ActorFromContext(r.Context())

	result, err := h.service.Void(r.Context(), id, actor, req.Remark)
	if err != nil {
		switch {
		case errors.Is(err, approvals.ErrRequestNotFound):
			handlers.RespondNotFound(w, msgApprovalNotFound)

		case errors.Is(err, approvals.ErrNotApproved):
			handlers.RespondError(w, http.StatusConflict, msgNotApproved)

		case errors.Is(err, approvals.ErrForbidden):
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("POST /approvals/{id}/void - Failed: id=%s, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /approvals/{id}/void - Voided: id=%s", id)
	handlers.RespondJSON(w, http.StatusOK, result)
}
