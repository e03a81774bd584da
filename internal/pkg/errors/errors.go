package errors

import (
	stderrors "errors"
	"fmt"
)

type AppError struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	StatusCode int                    `json:"-"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Details:    make(map[string]interface{}),
	}
}

// WithDetails возвращает копию ошибки с деталями, каталожные ошибки не изменяются
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

// Kind классифицирует фатальные ошибки стадий пайплайна
type Kind string

const (
	KindSchema       Kind = "SCHEMA_ERROR"
	KindTypeCoercion Kind = "TYPE_COERCION_ERROR"
)

var (
	// ErrSchema - во входной таблице отсутствует ожидаемая колонка
	ErrSchema = stderrors.New("schema error")

	// ErrTypeCoercion - значение не приводится к ожидаемому типу
	ErrTypeCoercion = stderrors.New("type coercion error")
)

// StageError - ошибка, привязанная к конкретной стадии пайплайна
type StageError struct {
	Stage  string
	Kind   Kind
	Column string
	Row    int
	Err    error
}

func (e *StageError) Error() string {
	if e.Kind == KindTypeCoercion {
		return fmt.Sprintf("stage %s: %s: column %q row %d: %v", e.Stage, e.Kind, e.Column, e.Row, e.Err)
	}
	return fmt.Sprintf("stage %s: %s: column %q: %v", e.Stage, e.Kind, e.Column, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func (e *StageError) Is(target error) bool {
	switch target {
	case ErrSchema:
		return e.Kind == KindSchema
	case ErrTypeCoercion:
		return e.Kind == KindTypeCoercion
	}
	return false
}

// NewSchemaError создает ошибку отсутствующей колонки
func NewSchemaError(stage, table, column string) *StageError {
	return &StageError{
		Stage:  stage,
		Kind:   KindSchema,
		Column: column,
		Err:    fmt.Errorf("table %q has no column %q", table, column),
	}
}

// NewCoercionError создает ошибку приведения типа
func NewCoercionError(stage, column string, row int, err error) *StageError {
	return &StageError{
		Stage:  stage,
		Kind:   KindTypeCoercion,
		Column: column,
		Row:    row,
		Err:    err,
	}
}

// StageOf возвращает имя стадии, на которой произошла ошибка
func StageOf(err error) (string, bool) {
	var se *StageError
	if stderrors.As(err, &se) {
		return se.Stage, true
	}
	return "", false
}
