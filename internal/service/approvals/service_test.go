package approvals

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apiwat1229/ServiceHub-sub002/internal/domain"
	approvalRepo "github.com/apiwat1229/ServiceHub-sub002/internal/infra/storage/approval"
	"github.com/apiwat1229/ServiceHub-sub002/pkg/ptr"
)

type fakeApprovalRepo struct {
	requests map[uuid.UUID]*domain.ApprovalRequest
	logs     []*domain.ApprovalLog
}

func newFakeApprovalRepo() *fakeApprovalRepo {
	return &fakeApprovalRepo{requests: make(map[uuid.UUID]*domain.ApprovalRequest)}
}

func (f *fakeApprovalRepo) Create(_ context.Context, req *domain.ApprovalRequest) (*domain.ApprovalRequest, error) {
	req.ID = uuid.New()
	req.Status = domain.ApprovalPending
	req.SubmittedAt = time.Now()
	f.requests[req.ID] = req
	return req, nil
}

func (f *fakeApprovalRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.ApprovalRequest, error) {
	req, ok := f.requests[id]
	if !ok {
		return nil, approvalRepo.ErrRequestNotFound
	}
	clone := *req
	return &clone, nil
}

func (f *fakeApprovalRepo) List(_ context.Context, filter domain.ApprovalFilter) ([]*domain.ApprovalRequest, error) {
	result := make([]*domain.ApprovalRequest, 0)
	for _, req := range f.requests {
		if filter.Status != nil && req.Status != *filter.Status {
			continue
		}
		if filter.RequesterID != nil && req.RequesterID != *filter.RequesterID {
			continue
		}
		if !filter.IncludeDeleted && req.DeletedAt != nil {
			continue
		}
		result = append(result, req)
	}
	return result, nil
}

func (f *fakeApprovalRepo) ListExpired(_ context.Context, now time.Time) ([]*domain.ApprovalRequest, error) {
	result := make([]*domain.ApprovalRequest, 0)
	for _, req := range f.requests {
		if req.Status != domain.ApprovalPending || req.ExpiresAt == nil {
			continue
		}
		if !req.ExpiresAt.After(now) {
			result = append(result, req)
		}
	}
	return result, nil
}

func (f *fakeApprovalRepo) TransitionStatus(_ context.Context, id uuid.UUID, from, to domain.ApprovalStatus, approverID *uuid.UUID, actedAt time.Time, remark *string) error {
	req, ok := f.requests[id]
	if !ok || req.Status != from {
		return approvalRepo.ErrStateConflict
	}
	req.Status = to
	req.ActedAt = &actedAt
	if approverID != nil {
		req.ApproverID = approverID
	}
	if remark != nil {
		req.Remark = remark
	}
	return nil
}

func (f *fakeApprovalRepo) SoftDelete(_ context.Context, id uuid.UUID, deletedBy uuid.UUID) error {
	req, ok := f.requests[id]
	if !ok || req.DeletedAt != nil {
		return approvalRepo.ErrRequestNotFound
	}
	now := time.Now()
	req.DeletedAt = &now
	req.DeletedBy = &deletedBy
	return nil
}

func (f *fakeApprovalRepo) CreateLog(_ context.Context, log *domain.ApprovalLog) error {
	log.ID = uuid.New()
	log.CreatedAt = time.Now()
	f.logs = append(f.logs, log)
	return nil
}

func (f *fakeApprovalRepo) ListLogs(_ context.Context, requestID uuid.UUID) ([]*domain.ApprovalLog, error) {
	result := make([]*domain.ApprovalLog, 0)
	for _, l := range f.logs {
		if l.ApprovalRequestID == requestID {
			result = append(result, l)
		}
	}
	return result, nil
}

func (f *fakeApprovalRepo) logActions(requestID uuid.UUID) []string {
	actions := make([]string, 0)
	for _, l := range f.logs {
		if l.ApprovalRequestID == requestID {
			actions = append(actions, l.Action)
		}
	}
	return actions
}

type fakeApplier struct {
	applied []*domain.ApprovalRequest
	err     error
}

func (f *fakeApplier) Apply(_ context.Context, req *domain.ApprovalRequest, _ uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	f.applied = append(f.applied, req)
	return nil
}

type fakeNotifier struct {
	triggered []string
	direct    []uuid.UUID
}

func (f *fakeNotifier) Trigger(_ context.Context, sourceApp, actionType string, _ domain.NotificationPayload, _ *uuid.UUID) {
	f.triggered = append(f.triggered, sourceApp+"/"+actionType)
}

func (f *fakeNotifier) NotifyUser(_ context.Context, userID uuid.UUID, _, _ string, _ domain.NotificationPayload) {
	f.direct = append(f.direct, userID)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func admin() *domain.User {
	return &domain.User{ID: uuid.New(), Role: domain.RoleAdmin, Email: "admin@example.com"}
}

func staff() *domain.User {
	return &domain.User{ID: uuid.New(), Role: "staff_1", Email: "staff@example.com"}
}

func newTestService(repo *fakeApprovalRepo, applier *fakeApplier, notifier *fakeNotifier) *Service {
	return NewService(repo, applier, notifier, 72*time.Hour, noopLogger{})
}

func pendingRequest(t *testing.T, svc *Service, requester *domain.User) *domain.ApprovalRequest {
	t.Helper()
	req, err := svc.CreateRequest(context.Background(), &domain.ApprovalRequest{
		EntityType:   domain.EntityBooking,
		EntityID:     uuid.New(),
		SourceApp:    domain.SourceAppBookings,
		ActionType:   domain.ActionUpdate,
		CurrentData:  domain.JSONMap{"rubberType": "USS"},
		ProposedData: domain.JSONMap{"rubberType": "CUP"},
		Reason:       "wrong rubber type",
		RequesterID:  requester.ID,
	}, requester)
	require.NoError(t, err)
	return req
}

func TestCreateRequest(t *testing.T) {
	repo := newFakeApprovalRepo()
	notifier := &fakeNotifier{}
	svc := newTestService(repo, &fakeApplier{}, notifier)
	requester := staff()

	req := pendingRequest(t, svc, requester)

	assert.Equal(t, domain.ApprovalPending, req.Status)
	assert.Equal(t, domain.PriorityNormal, req.Priority)
	assert.Equal(t, "UPDATE Booking", req.RequestType)
	require.NotNil(t, req.ExpiresAt)

	assert.Equal(t, []string{"CREATED"}, repo.logActions(req.ID))
	assert.Equal(t, []string{"APPROVALS/APPROVAL_REQUEST"}, notifier.triggered)
}

func TestCreateRequest_Validation(t *testing.T) {
	svc := newTestService(newFakeApprovalRepo(), &fakeApplier{}, &fakeNotifier{})
	requester := staff()

	tests := []struct {
		name   string
		mutate func(*domain.ApprovalRequest)
	}{
		{"unknown entity type", func(r *domain.ApprovalRequest) { r.EntityType = "Invoice" }},
		{"unknown action type", func(r *domain.ApprovalRequest) { r.ActionType = "MERGE" }},
		{"missing entity id", func(r *domain.ApprovalRequest) { r.EntityID = uuid.Nil }},
		{"missing requester", func(r *domain.ApprovalRequest) { r.RequesterID = uuid.Nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &domain.ApprovalRequest{
				EntityType:  domain.EntityBooking,
				EntityID:    uuid.New(),
				ActionType:  domain.ActionUpdate,
				RequesterID: requester.ID,
			}
			tt.mutate(req)

			_, err := svc.CreateRequest(context.Background(), req, requester)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestApprove(t *testing.T) {
	repo := newFakeApprovalRepo()
	applier := &fakeApplier{}
	notifier := &fakeNotifier{}
	svc := newTestService(repo, applier, notifier)
	requester := staff()

	req := pendingRequest(t, svc, requester)

	resp, err := svc.Approve(context.Background(), req.ID, admin(), ptr.Ptr("ok"))
	require.NoError(t, err)

	assert.Equal(t, string(domain.ApprovalApproved), resp.Status)
	require.Len(t, applier.applied, 1)
	assert.Equal(t, req.ID, applier.applied[0].ID)
	assert.Equal(t, []string{"CREATED", "APPROVED"}, repo.logActions(req.ID))
	assert.Equal(t, []uuid.UUID{requester.ID}, notifier.direct)
	assert.Equal(t, []string{"APPROVALS/APPROVAL_REQUEST", "APPROVALS/APPROVE"}, notifier.triggered)
}

func TestApprove_ApplyFailureKeepsApproved(t *testing.T) {
	repo := newFakeApprovalRepo()
	applier := &fakeApplier{err: ErrUnsupportedApplyStep}
	svc := newTestService(repo, applier, &fakeNotifier{})

	req := pendingRequest(t, svc, staff())

	// Сбой шага применения не отменяет решение
	resp, err := svc.Approve(context.Background(), req.ID, admin(), nil)
	require.NoError(t, err)
	assert.Equal(t, string(domain.ApprovalApproved), resp.Status)

	stored, err := repo.GetByID(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalApproved, stored.Status)
}

func TestApprove_Forbidden(t *testing.T) {
	svc := newTestService(newFakeApprovalRepo(), &fakeApplier{}, &fakeNotifier{})

	req := pendingRequest(t, svc, staff())

	_, err := svc.Approve(context.Background(), req.ID, staff(), nil)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestApprove_PermissionGrantsAccess(t *testing.T) {
	svc := newTestService(newFakeApprovalRepo(), &fakeApplier{}, &fakeNotifier{})

	req := pendingRequest(t, svc, staff())

	approver := staff()
	approver.Permissions = []string{domain.PermBookingsApprove}

	_, err := svc.Approve(context.Background(), req.ID, approver, nil)
	assert.NoError(t, err)
}

func TestApprove_NotPending(t *testing.T) {
	svc := newTestService(newFakeApprovalRepo(), &fakeApplier{}, &fakeNotifier{})

	req := pendingRequest(t, svc, staff())

	_, err := svc.Approve(context.Background(), req.ID, admin(), nil)
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), req.ID, admin(), nil)
	assert.ErrorIs(t, err, ErrNotPending)
}

func TestReject(t *testing.T) {
	repo := newFakeApprovalRepo()
	applier := &fakeApplier{}
	svc := newTestService(repo, applier, &fakeNotifier{})

	req := pendingRequest(t, svc, staff())

	resp, err := svc.Reject(context.Background(), req.ID, admin(), ptr.Ptr("not justified"))
	require.NoError(t, err)

	assert.Equal(t, string(domain.ApprovalRejected), resp.Status)
	assert.Empty(t, applier.applied)
	assert.Equal(t, []string{"CREATED", "REJECTED"}, repo.logActions(req.ID))
}

func TestReturn(t *testing.T) {
	repo := newFakeApprovalRepo()
	svc := newTestService(repo, &fakeApplier{}, &fakeNotifier{})

	req := pendingRequest(t, svc, staff())

	resp, err := svc.Return(context.Background(), req.ID, admin(), ptr.Ptr("add reason"))
	require.NoError(t, err)

	assert.Equal(t, string(domain.ApprovalReturned), resp.Status)
	assert.Equal(t, []string{"CREATED", "RETURNED"}, repo.logActions(req.ID))
}

func TestCancel_RequesterOnly(t *testing.T) {
	repo := newFakeApprovalRepo()
	svc := newTestService(repo, &fakeApplier{}, &fakeNotifier{})
	requester := staff()

	req := pendingRequest(t, svc, requester)

	// Чужой пользователь, даже администратор, отозвать не может
	_, err := svc.Cancel(context.Background(), req.ID, admin())
	assert.ErrorIs(t, err, ErrForbidden)

	resp, err := svc.Cancel(context.Background(), req.ID, requester)
	require.NoError(t, err)
	assert.Equal(t, string(domain.ApprovalCancelled), resp.Status)
	assert.Equal(t, []string{"CREATED", "CANCELLED"}, repo.logActions(req.ID))
}

func TestVoid(t *testing.T) {
	repo := newFakeApprovalRepo()
	svc := newTestService(repo, &fakeApplier{}, &fakeNotifier{})

	req := pendingRequest(t, svc, staff())

	// VOID доступен только из APPROVED
	_, err := svc.Void(context.Background(), req.ID, admin(), nil)
	assert.ErrorIs(t, err, ErrNotApproved)

	_, err = svc.Approve(context.Background(), req.ID, admin(), nil)
	require.NoError(t, err)

	resp, err := svc.Void(context.Background(), req.ID, admin(), ptr.Ptr("approved by mistake"))
	require.NoError(t, err)
	assert.Equal(t, string(domain.ApprovalVoid), resp.Status)
	assert.Equal(t, []string{"CREATED", "APPROVED", "VOIDED"}, repo.logActions(req.ID))
}

func TestExpire(t *testing.T) {
	repo := newFakeApprovalRepo()
	notifier := &fakeNotifier{}
	svc := newTestService(repo, &fakeApplier{}, notifier)
	requester := staff()

	expired := pendingRequest(t, svc, requester)
	fresh := pendingRequest(t, svc, requester)

	now := time.Now()
	repo.requests[expired.ID].ExpiresAt = ptr.Ptr(now.Add(-time.Hour))
	repo.requests[fresh.ID].ExpiresAt = ptr.Ptr(now.Add(time.Hour))

	count, err := svc.Expire(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	assert.Equal(t, domain.ApprovalExpired, repo.requests[expired.ID].Status)
	assert.Equal(t, domain.ApprovalPending, repo.requests[fresh.ID].Status)
	assert.Contains(t, repo.logActions(expired.ID), "EXPIRED")
}

func TestExpire_SkipsConcurrentlyResolved(t *testing.T) {
	repo := newFakeApprovalRepo()
	svc := newTestService(repo, &fakeApplier{}, &fakeNotifier{})

	req := pendingRequest(t, svc, staff())
	repo.requests[req.ID].ExpiresAt = ptr.Ptr(time.Now().Add(-time.Hour))
	// Заявку успели одобрить между выборкой и переходом
	repo.requests[req.ID].Status = domain.ApprovalApproved

	count, err := svc.Expire(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, domain.ApprovalApproved, repo.requests[req.ID].Status)
}

func TestSoftDelete_KeepsAuditLog(t *testing.T) {
	repo := newFakeApprovalRepo()
	svc := newTestService(repo, &fakeApplier{}, &fakeNotifier{})

	req := pendingRequest(t, svc, staff())

	err := svc.SoftDelete(context.Background(), req.ID, admin())
	require.NoError(t, err)

	assert.NotNil(t, repo.requests[req.ID].DeletedAt)
	assert.Equal(t, []string{"CREATED", "DELETED"}, repo.logActions(req.ID))
}
