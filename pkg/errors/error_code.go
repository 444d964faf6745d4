package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidPeriod        ErrorCode = 102
	ErrCodeInvalidGrid          ErrorCode = 103
	ErrCodeUnknownParameter     ErrorCode = 104
	ErrCodeInvalidStrategy      ErrorCode = 105
	ErrCodeInvalidVersion       ErrorCode = 106
	ErrCodeInvalidSession       ErrorCode = 107
	ErrCodeInvalidOrder         ErrorCode = 108
	ErrCodeVersionMismatch      ErrorCode = 109

	// Input data errors (200-299)
	ErrCodeEmptyBars             ErrorCode = 200
	ErrCodeMalformedBar          ErrorCode = 201
	ErrCodeUnorderedBars         ErrorCode = 202
	ErrCodeDataSourceUnavailable ErrorCode = 203
	ErrCodeQueryFailed           ErrorCode = 204
	ErrCodeUnsupportedDataFormat ErrorCode = 205

	// Indicator errors (300-399)
	ErrCodeIndicatorNotFound      ErrorCode = 300
	ErrCodeIndicatorAlreadyExists ErrorCode = 301

	// Ledger errors (500-599)
	ErrCodeOrderPending       ErrorCode = 500
	ErrCodeNoPendingOrder     ErrorCode = 501
	ErrCodeOrderIDMismatch    ErrorCode = 502
	ErrCodeInvalidFillPrice   ErrorCode = 503
	ErrCodeInsufficientMargin ErrorCode = 504
	ErrCodeNothingToClose     ErrorCode = 505

	// Sweep errors (600-699)
	ErrCodeRunFailed         ErrorCode = 600
	ErrCodeRunTimeout        ErrorCode = 601
	ErrCodeSweepCancelled    ErrorCode = 602
	ErrCodeResultWriteFailed ErrorCode = 603
	ErrCodeSweepNotReady     ErrorCode = 604
	ErrCodeNoDatasource      ErrorCode = 605
	ErrCodeNoResultsFolder   ErrorCode = 606
)
