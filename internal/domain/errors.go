package domain

import "fmt"

// AppError is the base domain error type.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Cause   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Cause }

// Standard domain error constructors.

func ErrNotFound(entity, id string) *AppError {
	return &AppError{Code: "NOT_FOUND", Message: fmt.Sprintf("%s %s not found", entity, id), Status: 404}
}

func ErrConflict(msg string) *AppError {
	return &AppError{Code: "CONFLICT", Message: msg, Status: 409}
}

func ErrValidation(msg string) *AppError {
	return &AppError{Code: "VALIDATION_ERROR", Message: msg, Status: 400}
}

func ErrUnauthorized(msg string) *AppError {
	return &AppError{Code: "UNAUTHORIZED", Message: msg, Status: 401}
}

func ErrForbidden(msg string) *AppError {
	return &AppError{Code: "FORBIDDEN", Message: msg, Status: 403}
}

// ErrTypeSwitch signals that a save would overwrite an existing config of a
// different budget type. Callers retry with an explicit confirmation flag.
func ErrTypeSwitch(existing BudgetType) *AppError {
	return &AppError{
		Code:    "BUDGET_TYPE_SWITCH",
		Message: fmt.Sprintf("campaign already has a %s budget config; confirm to overwrite", existing),
		Status:  409,
	}
}

// ErrExternalService wraps an ad-platform API failure surfaced during sync.
func ErrExternalService(platform string, cause error) *AppError {
	return &AppError{Code: "EXTERNAL_SERVICE_ERROR", Message: fmt.Sprintf("%s platform request failed", platform), Status: 502, Cause: cause}
}

func ErrInternal(msg string, cause error) *AppError {
	return &AppError{Code: "INTERNAL_ERROR", Message: msg, Status: 500, Cause: cause}
}
