package create_approval

import (
	"errors"
	"net/http"

	"github.com/apiwat1229/ServiceHub-sub002/internal/api/handlers"
	"github.com/apiwat1229/ServiceHub-sub002/internal/api/middleware"
	"github.com/apiwat1229/ServiceHub-sub002/internal/service/approvals"
	"github.com/apiwat1229/ServiceHub-sub002/internal/service/approvals/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidPayload     = "некорректные параметры заявки"
	msgActorRequired      = "требуется идентификатор пользователя"
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

// Handle POST /api/v1/approvals
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	if actor == nil {
		handlers.RespondError(w, http.StatusUnauthorized, msgActorRequired)
		return
	}

	var req CreateApprovalRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	domainReq, err := req.ToDomain(actor.ID)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidPayload)
		return
	}

	created, err := h.service.CreateRequest(r.Context(), domainReq, actor)
	if err != nil {
		switch {
		case errors.Is(err, approvals.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidPayload)

		default:
			h.logger.Error("POST /approvals - Failed: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /approvals - Created: id=%s, entity=%s, action=%s", created.ID, created.EntityType, created.ActionType)
	handlers.RespondJSON(w, http.StatusCreated, models.FromDomainApproval(created))
}
