package apperror

// AppError is a custom error type that includes an HTTP status code and a machine-readable reason.
type AppError struct {
	Code    int    // HTTP Status Code (e.g., 400, 404)
	Reason  string // Stable reason code for clients (e.g., "OverlapExists")
	Message string // User-facing error message
	Err     error  // The underlying error, if any (not exposed to user)

	origin *AppError // sentinel this error was derived from via WithCode
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel e was created as or derived from with WithCode.
// Two sentinels sharing a reason string stay distinct.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.root() == t.root()
}

func (e *AppError) root() *AppError {
	if e.origin != nil {
		return e.origin
	}
	return e
}

// New creates a new AppError with a status code, reason and message.
func New(code int, reason, message string) *AppError {
	return &AppError{
		Code:    code,
		Reason:  reason,
		Message: message,
	}
}

// Wrap creates a new AppError wrapping an existing error.
func Wrap(err error, code int, reason, message string) *AppError {
	return &AppError{
		Code:    code,
		Reason:  reason,
		Message: message,
		Err:     err,
	}
}

// WithCode returns a copy of e answered with a different HTTP status.
// Routes use it when the same rejection maps to another status on that route.
func (e *AppError) WithCode(code int) *AppError {
	c := *e
	c.Code = code
	c.origin = e.root()
	return &c
}
