package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeMalformedRow         ErrorCode = 102

	// Data/Resource errors (200-299)
	ErrCodeMissingUpstream       ErrorCode = 200
	ErrCodeDataSourceUnavailable ErrorCode = 201
	ErrCodeQueryFailed           ErrorCode = 202
	ErrCodeInsufficientHistory   ErrorCode = 203
	ErrCodeStoreFailed           ErrorCode = 204

	// Trading errors (300-399)
	ErrCodeExecutionFailed  ErrorCode = 300
	ErrCodePositionNotFound ErrorCode = 301

	// Notification errors (400-499)
	ErrCodeNotificationFailed ErrorCode = 400

	// Market data errors (500-599)
	ErrCodeMarketDataFetchFailed ErrorCode = 500
	ErrCodeMarketDataParseFailed ErrorCode = 501
	ErrCodeInvalidProvider       ErrorCode = 502
)
