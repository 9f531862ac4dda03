package rubbertype

import "errors"

var (
	// ErrRubberTypeNotFound возвращается, когда вид каучука не найден
	ErrRubberTypeNotFound = errors.New("rubbertype.repository: rubber type not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("rubbertype.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("rubbertype.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("rubbertype.repository: failed to scan row")
)
