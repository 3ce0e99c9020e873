package gmail

import "errors"

// UsageError indicates the caller asked for something that cannot be done
// with the given message, such as replying to a message with no derivable
// recipient. It carries a user-facing description and should be rendered
// without a stack trace.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

// usageErrorf creates a UsageError with a plain message.
func usageErrorf(msg string) error {
	return &UsageError{Message: msg}
}

// IsUsageError reports whether err is (or wraps) a UsageError.
func IsUsageError(err error) bool {
	var ue *UsageError
	return errors.As(err, &ue)
}
