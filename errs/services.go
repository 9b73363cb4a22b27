package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Third-party API errors
var (
	ErrGatewayRejected    = errors.New("payment gateway rejected the request")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrPaymentNotValid    = errors.New("payment could not be validated")
	ErrNotificationFailed = errors.New("notification delivery failed")
	ErrStorageFailed      = errors.New("object storage failed")
)

// Configuration & Environment Errors
var (
	ErrConfigMissing = errors.New("configuration missing")
)

// Business rule errors
var (
	ErrInvalidSlug  = errors.New("a valid slug could not be derived")
	ErrInvalidPrice = errors.New("invalid project price")
)

func NewGatewayRejectedError(details string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrGatewayRejected,
		Details:    details,
	}
}

func NewGatewayUnavailableError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrGatewayUnavailable,
		Cause:      cause,
	}
}

func NewPaymentNotValidError(status string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusPaymentRequired,
		err:        ErrPaymentNotValid,
		Details:    fmt.Sprintf("gateway status %q", status),
	}
}

func NewConfigMissingError(key string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrConfigMissing,
		Details:    fmt.Sprintf("%s is not configured", key),
		Field:      key,
	}
}

func NewInvalidSlugError(field string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrInvalidSlug,
		Details:    fmt.Sprintf("%s must contain at least one letter or digit", field),
		Field:      field,
	}
}

func NewInvalidPriceError(raw string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrInvalidPrice,
		Details:    fmt.Sprintf("%q is not a positive amount", raw),
		Field:      "discount",
	}
}

func NewStorageError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrStorageFailed,
		Cause:      cause,
	}
}

func IsInvalidPrice(err error) bool {
	return errors.Is(err, ErrInvalidPrice)
}

func NewNotificationError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrNotificationFailed,
		Cause:      cause,
	}
}

func IsConfigMissing(err error) bool {
	return errors.Is(err, ErrConfigMissing)
}
