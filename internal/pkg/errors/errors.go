package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind - категория доменной ошибки, не зависящая от транспорта
type Kind string

const (
	KindNotFound            Kind = "NOT_FOUND"
	KindValidation          Kind = "VALIDATION_ERROR"
	KindAlreadyExists       Kind = "ALREADY_EXISTS"
	KindForbidden           Kind = "FORBIDDEN"
	KindUnauthorized        Kind = "UNAUTHORIZED"
	KindUpstreamUnavailable Kind = "UPSTREAM_UNAVAILABLE"
	KindUpstreamBadResponse Kind = "UPSTREAM_BAD_RESPONSE"
	KindInternal            Kind = "INTERNAL"
)

type AppError struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Kind       Kind                   `json:"-"`
	StatusCode int                    `json:"-"`

	cause error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.cause
}

// Is сравнивает ошибки по коду, поэтому обёрнутая копия совпадает со своим sentinel
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func New(code, message string, kind Kind, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		Kind:       kind,
		StatusCode: statusCode,
	}
}

// Wrap возвращает копию ошибки с причиной; исходный sentinel не меняется
func (e *AppError) Wrap(cause error) *AppError {
	cp := *e
	cp.cause = cause
	return &cp
}

// WithDetails возвращает копию ошибки с деталями
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

// KindOf определяет категорию любой (в том числе обёрнутой) ошибки
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) && appErr.Kind != "" {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind - короткая форма KindOf(err) == kind
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// As - реэкспорт стандартного errors.As, чтобы не импортировать оба пакета
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// Is - реэкспорт стандартного errors.Is
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}
