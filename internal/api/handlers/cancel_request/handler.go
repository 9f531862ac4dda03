package cancel_request

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
	msgInvalidApprovalID = "некорректный идентификатор заявки"
	msgApprovalNotFound  = "заявка не найдена"
	msgNotPending        = "заявка уже рассмотрена"
	msgNotRequester      = "отозвать заявку может только её автор"
	msgActorRequired     = "требуется идентификатор пользователя"
)

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

// Handle POST /api/v1/approvals/{id}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidApprovalID)
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	if actor == nil {
		handlers.RespondError(w, http.StatusUnauthorized, msgActorRequired)
		return
	}

	result, err := h.service.Cancel(r.Context(), id, actor)
	if err != nil {
		switch {
		case errors.Is(err, approvals.ErrRequestNotFound):
			handlers.RespondNotFound(w, msgApprovalNotFound)

		case errors.Is(err, approvals.ErrNotPending):
			handlers.RespondError(w, http.StatusConflict, msgNotPending)

		case errors.Is(err, approvals.ErrForbidden):
			handlers.RespondForbidden(w, msgNotRequester)

		default:
			h.logger.Error("POST /approvals/{id}/cancel - Failed: id=%s, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /approvals/{id}/cancel - Cancelled: id=%s, requester=%s", id, actor.ID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
