package common

import "fmt"

// Error codes surfaced by the resolution and parlay services.
const (
	CodeGameNotStarted       = "GAME_NOT_STARTED"
	CodeAlreadyResolved      = "ALREADY_RESOLVED"
	CodeGameInvalidStatus    = "GAME_INVALID_STATUS"
	CodeGameDataFetchFailed  = "GAME_DATA_FETCH_FAILED"
	CodeResolutionFailed     = "RESOLUTION_FAILED"
	CodeValidationFailed     = "VALIDATION_FAILED"
	CodeParlayLocked         = "PARLAY_LOCKED"
	CodeParlayNotFound       = "PARLAY_NOT_FOUND"
	CodeDuplicateBet         = "DUPLICATE_BET"
	CodeInsuranceUnavailable = "INSURANCE_UNAVAILABLE"
	CodeBetNotFound          = "BET_NOT_FOUND"
)

// ServiceError is the typed error the services return to callers. Retryable
// errors (timing gates, provider failures, incomplete data) are expected
// conditions, not failures.
type ServiceError struct {
	Code      string
	Message   string
	Retryable bool
	// Detail carries state the UI needs for reconciliation, e.g. the current
	// outcome on ALREADY_RESOLVED or minutes until tip-off on GAME_NOT_STARTED.
	Detail map[string]interface{}
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewServiceError(code, message string) *ServiceError {
	return &ServiceError{Code: code, Message: message}
}

func (e *ServiceError) WithDetail(key string, value interface{}) *ServiceError {
	if e.Detail == nil {
		e.Detail = make(map[string]interface{})
	}
	e.Detail[key] = value
	return e
}

func (e *ServiceError) AsRetryable() *ServiceError {
	e.Retryable = true
	return e
}
