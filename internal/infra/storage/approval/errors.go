package approval

import "errors"

var (
	// ErrRequestNotFound возвращается, когда заявка не найдена
	ErrRequestNotFound = errors.New("approval.repository: request not found")

	// ErrStateConflict возвращается, когда условный перевод статуса
	// не изменил ни одной строки (статус уже не соответствует ожидаемому)
	ErrStateConflict = errors.New("approval.repository: request is not in expected status")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("approval.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("approval.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("approval.repository: failed to scan row")
)
