package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/apiwat1229/ServiceHub-sub002/internal/api/handlers"
	"github.com/apiwat1229/ServiceHub-sub002/internal/domain"
	userRepo "github.com/apiwat1229/ServiceHub-sub002/internal/infra/storage/user"
)

// HeaderUserID заголовок с ID пользователя, проставляется шлюзом
const HeaderUserID = "X-User-ID"

const (
	msgInvalidUserID = "некорректный идентификатор пользователя"
	msgUserNotFound  = "пользователь не найден"
)

type actorCtxKey struct{}

// UserRepository интерфейс загрузки пользователя по ID
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Actor резолвит актора запроса по заголовку X-User-ID
// Запрос без заголовка проходит как системный: актор в контексте
// отсутствует, и нижние слои считают вызов привилегированным.
// Сервис внутренний, заголовок проставляет доверенный шлюз
func Actor(users UserRepository, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get(HeaderUserID)
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			id, err := uuid.Parse(header)
			if err != nil {
				logger.Warn("Actor: invalid %s header %q", HeaderUserID, header)
				handlers.RespondBadRequest(w, msgInvalidUserID)
				return
			}

			user, err := users.GetByID(r.Context(), id)
			if err != nil {
				if errors.Is(err, userRepo.ErrUserNotFound) {
					logger.Warn("Actor: user %s not found", id)
					handlers.RespondError(w, http.StatusUnauthorized, msgUserNotFound)
					return
				}
				logger.Error("Actor: failed to load user %s: %v", id, err)
				handlers.RespondInternalError(w)
				return
			}

			ctx := context.WithValue(r.Context(), actorCtxKey{}, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ActorFromContext возвращает актора запроса, nil для системных вызовов
func ActorFromContext(ctx context.Context) *domain.User {
	user, _ := ctx.Value(actorCtxKey{}).(*domain.User)
	return user
}

// RequireActor отклоняет запросы без аутентифицированного актора
// Используется для персональных ресурсов (уведомления, мои заявки)
func RequireActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ActorFromContext(r.Context()) == nil {
			handlers.RespondError(w, http.StatusUnauthorized, msgUserNotFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}
