package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indica que el recurso solicitado no existe.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indica que los datos de entrada son inválidos.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoDatabase indica que no hay conexión disponible con el store.
	ErrNoDatabase = errors.New("no database available")
)

// StoreError es cualquier falla del almacenamiento: conectividad, timeout,
// query mal formada, constraint. Nunca se reintenta automáticamente.
type StoreError struct {
	Op     string // list, create, update, delete
	Driver string // mongo, postgres, sqlite, memory
	Err    error
}

func (e *StoreError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s: store failure", e.Driver, e.Op)
	}
	return fmt.Sprintf("%s: %s: %v", e.Driver, e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// WrapStoreError envuelve un error de driver en *StoreError.
// nil, ErrNotFound, ErrInvalidInput y *StoreError se devuelven sin tocar.
func WrapStoreError(driver, op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidInput) {
		return err
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Driver: driver, Err: err}
}

// IsNotFound verifica si el error es ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidInput verifica si el error es ErrInvalidInput.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsStoreError verifica si el error es (o envuelve) un *StoreError.
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}

// ─── Resultado explícito ───

// Outcome clasifica el resultado de una operación del puerto.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeNotFound
	OutcomeInvalid
	OutcomeStoreFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeInvalid:
		return "invalid"
	default:
		return "store_failure"
	}
}

// Classify traduce un error del puerto a un Outcome.
// Cualquier error que no sea NotFound/Invalid cuenta como falla del store.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, ErrInvalidInput):
		return OutcomeInvalid
	default:
		return OutcomeStoreFailure
	}
}
