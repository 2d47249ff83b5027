package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUpstreamRateLimited    = errors.New("rate limit exceeded, retry later")
	ErrUpstreamAuthFailed     = errors.New("authentication failed")
	ErrUpstreamNotFound       = errors.New("endpoint not found")
	ErrUpstreamGeneric        = errors.New("astro API error")
	ErrPersistenceWriteFailed = errors.New("persistence write failed")
	ErrInvalidChartType       = errors.New("invalid chart type")
	ErrInvalidPredictionType  = errors.New("invalid prediction type")
	ErrNotFound               = errors.New("not found")
	ErrForbidden              = errors.New("access denied")
)

// UpstreamError ошибка внешнего астро-API с HTTP статусом
type UpstreamError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s [status=%d]", e.Err, e.StatusCode)
	}
	return fmt.Sprintf("%s [status=%d]: %s", e.Err, e.StatusCode, e.Body)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// NewUpstreamError классифицирует ответ внешнего API по статусу
func NewUpstreamError(statusCode int, body string) *UpstreamError {
	var err error
	switch statusCode {
	case 429:
		err = ErrUpstreamRateLimited
	case 403:
		err = ErrUpstreamAuthFailed
	case 404:
		err = ErrUpstreamNotFound
	default:
		err = ErrUpstreamGeneric
	}
	return &UpstreamError{StatusCode: statusCode, Body: body, Err: err}
}

// BusinessError ошибка бизнес-логики, которая уже залогирована в UseCase
type BusinessError struct {
	Err error
}

func (e *BusinessError) Error() string {
	return e.Err.Error()
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func WrapBusinessError(err error) error {
	if err == nil {
		return nil
	}
	return &BusinessError{Err: err}
}

func IsBusinessError(err error) bool {
	var businessErr *BusinessError
	return errors.As(err, &businessErr)
}
