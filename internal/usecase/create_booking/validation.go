package create_booking

import (
	"fmt"

	"github.com/google/uuid"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if req.EndTime.IsZero() {
		return fmt.Errorf("%w: endTime is required", ErrInvalidInput)
	}
	if err := req.EndTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid endTime format: %v", ErrInvalidInput, err)
	}

	if !req.StartTime.IsBefore(req.EndTime) {
		return fmt.Errorf("%w: startTime must be before endTime", ErrInvalidInput)
	}

	if req.SupplierID == uuid.Nil {
		return fmt.Errorf("%w: supplierID is required", ErrInvalidInput)
	}
	if req.SupplierCode == "" {
		return fmt.Errorf("%w: supplierCode is required", ErrInvalidInput)
	}
	if req.SupplierName == "" {
		return fmt.Errorf("%w: supplierName is required", ErrInvalidInput)
	}

	if req.RubberType == "" {
		return fmt.Errorf("%w: rubberType is required", ErrInvalidInput)
	}
	if req.Recorder == "" {
		return fmt.Errorf("%w: recorder is required", ErrInvalidInput)
	}

	return nil
}
