package approvals

import "errors"

var (
	// ErrRequestNotFound возвращается, когда заявка не найдена
	ErrRequestNotFound = errors.New("approval request not found")

	// ErrNotPending возвращается при попытке разрешить заявку,
	// уже покинувшую статус PENDING
	ErrNotPending = errors.New("approval request is not pending")

	// ErrNotApproved возвращается при попытке аннулировать заявку,
	// не находящуюся в статусе APPROVED
	ErrNotApproved = errors.New("approval request is not approved")

	// ErrForbidden возвращается, когда у актора нет прав на операцию
	ErrForbidden = errors.New("operation is not allowed for this user")

	// ErrUnsupportedApplyStep возвращается для пары (сущность, действие),
	// у которой нет шага применения
	ErrUnsupportedApplyStep = errors.New("no apply step for entity and action")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
