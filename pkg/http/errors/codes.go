package errors

// Error codes for standardized error responses
const (
	// Validation errors
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeValidationFailed = "validation_failed"
	ErrCodeMissingField     = "missing_field"

	// Resource errors
	ErrCodeNotFound = "not_found"
	ErrCodeConflict = "conflict"

	// Match errors
	ErrCodeMatchCreationFailed = "match_creation_failed"
	ErrCodeInvalidMatchID      = "invalid_match_id"
	ErrCodeMatchNotFound       = "match_not_found"
	ErrCodeSubmitRejected      = "submit_rejected"
	ErrCodeCancelFailed        = "cancel_failed"
	ErrCodeUnknownTheme        = "unknown_theme"
	ErrCodeQuestionFetchFailed = "question_fetch_failed"
	ErrCodeResultNotFound      = "result_not_found"

	// WebSocket errors
	ErrCodeInvalidPayload     = "invalid_payload"
	ErrCodeUnknownMessageType = "unknown_message_type"
	ErrCodeConnectionError    = "connection_error"

	// Server errors
	ErrCodeInternalError      = "internal_error"
	ErrCodeServiceUnavailable = "service_unavailable"
	ErrCodeUpstreamError      = "upstream_error"
)
