package generation

import "errors"

var (
	// ErrInvalidRequest matches every validation failure via errors.Is.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUpstream matches every provider failure via errors.Is.
	ErrUpstream = errors.New("upstream error")
)

// InvalidRequestError is returned when client input fails validation.
type InvalidRequestError struct {
	Message string
}

// Invalid builds an InvalidRequestError.
func Invalid(message string) error {
	return &InvalidRequestError{Message: message}
}

func (e *InvalidRequestError) Error() string { return e.Message }

func (e *InvalidRequestError) Is(target error) bool { return target == ErrInvalidRequest }

// UpstreamError carries a provider failure. Its message is the provider's.
type UpstreamError struct {
	Err error
}

// Upstream wraps err as an UpstreamError unless it already is one.
func Upstream(err error) error {
	if err == nil {
		return nil
	}
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return err
	}
	return &UpstreamError{Err: err}
}

func (e *UpstreamError) Error() string {
	if e.Err == nil {
		return "unknown error"
	}
	return e.Err.Error()
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }
