package notifications

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apiwat1229/ServiceHub-sub002/internal/domain"
	notificationRepo "github.com/apiwat1229/ServiceHub-sub002/internal/infra/storage/notification"
	"github.com/apiwat1229/ServiceHub-sub002/internal/service/notifications/models"
	"github.com/apiwat1229/ServiceHub-sub002/pkg/ptr"
)

type fakeNotificationRepo struct {
	settings map[string]*domain.NotificationSetting
	groups   map[string][]uuid.UUID
	created  []*domain.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{
		settings: make(map[string]*domain.NotificationSetting),
		groups:   make(map[string][]uuid.UUID),
	}
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *domain.Notification) (*domain.Notification, error) {
	n.ID = uuid.New()
	n.Status = domain.NotificationUnread
	f.created = append(f.created, n)
	return n, nil
}

func (f *fakeNotificationRepo) ListByUser(_ context.Context, userID uuid.UUID, onlyUnread bool) ([]*domain.Notification, error) {
	result := make([]*domain.Notification, 0)
	for _, n := range f.created {
		if n.UserID != userID {
			continue
		}
		if onlyUnread && n.Status != domain.NotificationUnread {
			continue
		}
		result = append(result, n)
	}
	return result, nil
}

func (f *fakeNotificationRepo) CountUnread(_ context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, n := range f.created {
		if n.UserID == userID && n.Status == domain.NotificationUnread {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, id, userID uuid.UUID) error {
	for _, n := range f.created {
		if n.ID == id && n.UserID == userID {
			n.Status = domain.NotificationRead
			return nil
		}
	}
	return notificationRepo.ErrNotificationNotFound
}

func (f *fakeNotificationRepo) MarkAllRead(_ context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, n := range f.created {
		if n.UserID == userID && n.Status == domain.NotificationUnread {
			n.Status = domain.NotificationRead
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) GetSetting(_ context.Context, sourceApp, actionType string) (*domain.NotificationSetting, error) {
	setting, ok := f.settings[sourceApp+"/"+actionType]
	if !ok {
		return nil, notificationRepo.ErrSettingNotFound
	}
	return setting, nil
}

func (f *fakeNotificationRepo) ListSettings(_ context.Context) ([]*domain.NotificationSetting, error) {
	result := make([]*domain.NotificationSetting, 0, len(f.settings))
	for _, s := range f.settings {
		result = append(result, s)
	}
	return result, nil
}

func (f *fakeNotificationRepo) UpsertSetting(_ context.Context, s *domain.NotificationSetting) (*domain.NotificationSetting, error) {
	s.ID = uuid.New()
	f.settings[s.SourceApp+"/"+s.ActionType] = s
	return s, nil
}

func (f *fakeNotificationRepo) GroupMemberIDs(_ context.Context, groupIDs []string) ([]uuid.UUID, error) {
	result := make([]uuid.UUID, 0)
	for _, id := range groupIDs {
		result = append(result, f.groups[id]...)
	}
	return result, nil
}

type fakeUserRepo struct {
	byRole map[string][]uuid.UUID
}

func (f *fakeUserRepo) ListIDsByRoles(_ context.Context, roles []string) ([]uuid.UUID, error) {
	result := make([]uuid.UUID, 0)
	for _, role := range roles {
		result = append(result, f.byRole[role]...)
	}
	return result, nil
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func payload() domain.NotificationPayload {
	return domain.NotificationPayload{
		Title:   "Новая заявка на согласование",
		Message: "Заявка ожидает решения",
		Type:    domain.NotifyRequest,
	}
}

func TestTrigger_RoutesByRoles(t *testing.T) {
	adminID := uuid.New()
	repo := newFakeNotificationRepo()
	repo.settings["APPROVALS/APPROVAL_REQUEST"] = &domain.NotificationSetting{
		IsActive:       true,
		RecipientRoles: []string{domain.RoleAdmin},
	}
	users := &fakeUserRepo{byRole: map[string][]uuid.UUID{domain.RoleAdmin: {adminID}}}
	svc := NewService(repo, users, noopLogger{})

	svc.Trigger(context.Background(), "APPROVALS", "APPROVAL_REQUEST", payload(), nil)

	require.Len(t, repo.created, 1)
	assert.Equal(t, adminID, repo.created[0].UserID)
	assert.Equal(t, "APPROVALS", repo.created[0].SourceApp)
}

func TestTrigger_NoSettingDropsEvent(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := NewService(repo, &fakeUserRepo{}, noopLogger{})

	svc.Trigger(context.Background(), "BOOKINGS", "CREATE", payload(), nil)

	assert.Empty(t, repo.created)
}

func TestTrigger_InactiveSettingDropsEvent(t *testing.T) {
	adminID := uuid.New()
	repo := newFakeNotificationRepo()
	repo.settings["BOOKINGS/CREATE"] = &domain.NotificationSetting{
		IsActive:       false,
		RecipientRoles: []string{domain.RoleAdmin},
	}
	users := &fakeUserRepo{byRole: map[string][]uuid.UUID{domain.RoleAdmin: {adminID}}}
	svc := NewService(repo, users, noopLogger{})

	svc.Trigger(context.Background(), "BOOKINGS", "CREATE", payload(), nil)

	assert.Empty(t, repo.created)
}

func TestTrigger_DeduplicatesAndExcludes(t *testing.T) {
	shared := uuid.New() // и админ, и участник группы
	excluded := uuid.New()
	other := uuid.New()

	repo := newFakeNotificationRepo()
	repo.settings["APPROVALS/APPROVAL_REQUEST"] = &domain.NotificationSetting{
		IsActive:        true,
		RecipientRoles:  []string{domain.RoleAdmin},
		RecipientGroups: []string{"g1"},
	}
	repo.groups["g1"] = []uuid.UUID{shared, excluded, other}
	users := &fakeUserRepo{byRole: map[string][]uuid.UUID{domain.RoleAdmin: {shared, excluded}}}
	svc := NewService(repo, users, noopLogger{})

	svc.Trigger(context.Background(), "APPROVALS", "APPROVAL_REQUEST", payload(), ptr.Ptr(excluded))

	require.Len(t, repo.created, 2)
	recipients := []uuid.UUID{repo.created[0].UserID, repo.created[1].UserID}
	assert.ElementsMatch(t, []uuid.UUID{shared, other}, recipients)
}

func TestNotifyUser_BypassesSettings(t *testing.T) {
	userID := uuid.New()
	repo := newFakeNotificationRepo()
	svc := NewService(repo, &fakeUserRepo{}, noopLogger{})

	svc.NotifyUser(context.Background(), userID, "APPROVALS", "APPROVE", payload())

	require.Len(t, repo.created, 1)
	assert.Equal(t, userID, repo.created[0].UserID)
}

func TestMarkReadFlow(t *testing.T) {
	userID := uuid.New()
	repo := newFakeNotificationRepo()
	svc := NewService(repo, &fakeUserRepo{}, noopLogger{})

	svc.NotifyUser(context.Background(), userID, "BOOKINGS", "CREATE", payload())
	svc.NotifyUser(context.Background(), userID, "BOOKINGS", "UPDATE", payload())

	list, err := svc.List(context.Background(), userID, false)
	require.NoError(t, err)
	assert.Equal(t, 2, list.Total)
	assert.Equal(t, 2, list.Unread)

	err = svc.MarkRead(context.Background(), list.Notifications[0].ID, userID)
	require.NoError(t, err)

	list, err = svc.List(context.Background(), userID, false)
	require.NoError(t, err)
	assert.Equal(t, 1, list.Unread)

	count, err := svc.MarkAllRead(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMarkRead_ForeignNotification(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()
	repo := newFakeNotificationRepo()
	svc := NewService(repo, &fakeUserRepo{}, noopLogger{})

	svc.NotifyUser(context.Background(), owner, "BOOKINGS", "CREATE", payload())

	err := svc.MarkRead(context.Background(), repo.created[0].ID, stranger)
	assert.ErrorIs(t, err, ErrNotificationNotFound)
}

func TestUpsertSetting(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := NewService(repo, &fakeUserRepo{}, noopLogger{})

	resp, err := svc.UpsertSetting(context.Background(), &models.SettingRequest{
		SourceApp:      "BOOKINGS",
		ActionType:     "CREATE",
		IsActive:       true,
		RecipientRoles: []string{domain.RoleAdmin},
	})
	require.NoError(t, err)
	assert.Equal(t, "BOOKINGS", resp.SourceApp)

	_, err = svc.UpsertSetting(context.Background(), &models.SettingRequest{ActionType: "CREATE"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
