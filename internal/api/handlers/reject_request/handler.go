package reject_request

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
	msgNotPending         = "заявка уже рассмотрена"
	msgForbidden          = "недостаточно прав для согласования"
)

// DecisionRequest HTTP request model
type DecisionRequest struct {
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

// Handle POST /api/v1/approvals/{id}/reject
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidApprovalID)
		return
	}

	var req DecisionRequest
	if r.ContentLength > 0 {
		if err := handlers.DecodeJSON(r, &req); err != nil {
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
			return
		}
	}

	actor := middleware.ActorFromContext(r.Context())

	result, err := h.service.Reject(r.Context(), id, actor, req.Remark)
	if err != nil {
		switch {
		case errors.Is(err, approvals.ErrRequestNotFound):
			handlers.RespondNotFound(w, msgApprovalNotFound)

		case errors.Is(err, approvals.ErrNotPending):
			handlers.RespondError(w, http.StatusConflict, msgNotPending)

		case errors.Is(err, approvals.ErrForbidden):
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("POST /approvals/{id}/reject - Failed: id=%s, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /approvals/{id}/reject - Rejected: id=%s", id)
	handlers.RespondJSON(w, http.StatusOK, result)
}
