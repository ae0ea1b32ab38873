package entity

import (
	"errors"
	"fmt"
)

// Классы ошибок ядра. Проверяются через errors.Is.
var (
	ErrDecode            = errors.New("decode error")
	ErrDimensionMismatch = errors.New("dimension mismatch")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrComputation       = errors.New("computation error")
)

// ParamError описывает ошибку с указанием параметра, который её вызвал.
type ParamError struct {
	Kind   error  // один из Err* выше
	Param  string // имя параметра, может быть пустым
	Value  any    // значение параметра
	Reason string
}

func (e *ParamError) Error() string {
	if e.Param == "" {
		return fmt.Sprintf("%v: %s", e.Kind, e.Reason)
	}
	return fmt.Sprintf("%v: %s=%v: %s", e.Kind, e.Param, e.Value, e.Reason)
}

func (e *ParamError) Unwrap() error {
	return e.Kind
}

// InvalidArgument возвращает ошибку неверного параметра.
func InvalidArgument(param string, value any, reason string) error {
	return &ParamError{Kind: ErrInvalidArgument, Param: param, Value: value, Reason: reason}
}

// ComputationError возвращает ошибку вычисления.
func ComputationError(reason string) error {
	return &ParamError{Kind: ErrComputation, Reason: reason}
}

// DimensionMismatch возвращает ошибку несовпадения размеров.
func DimensionMismatch(param string, value any, reason string) error {
	return &ParamError{Kind: ErrDimensionMismatch, Param: param, Value: value, Reason: reason}
}
