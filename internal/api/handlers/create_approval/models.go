package create_approval

import (
	"github.com/google/uuid"

	"github.com/apiwat1229/ServiceHub-sub002/internal/domain"
)

// CreateApprovalRequest HTTP request model
type CreateApprovalRequest struct {
	RequestType  string         `json:"requestType,omitempty"`
	EntityType   string         `json:"entityType"`
	EntityID     string         `json:"entityId"`
	SourceApp    string         `json:"sourceApp,omitempty"`
	ActionType   string         `json:"actionType"`
	CurrentData  domain.JSONMap `json:"currentData,omitempty"`
	ProposedData domain.JSONMap `json:"proposedData,omitempty"`
	Reason       string         `json:"reason"`
	Priority     string         `json:"priority,omitempty"`
}

// ToDomain конвертирует HTTP request в domain модель
// RequesterID берётся из актора, а не из тела запроса
func (r *CreateApprovalRequest) ToDomain(requesterID uuid.UUID) (*domain.ApprovalRequest, error) {
	entityID, err := uuid.Parse(r.EntityID)
	if err != nil {
		return nil, err
	}

	return &domain.ApprovalRequest{
		RequestType:  r.RequestType,
		EntityType:   domain.EntityType(r.EntityType),
		EntityID:     entityID,
		SourceApp:    r.SourceApp,
		ActionType:   domain.ActionType(r.ActionType),
		CurrentData:  r.CurrentData,
		ProposedData: r.ProposedData,
		Reason:       r.Reason,
		Priority:     domain.ApprovalPriority(r.Priority),
		RequesterID:  requesterID,
	}, nil
}
