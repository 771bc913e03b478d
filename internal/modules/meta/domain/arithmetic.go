package domain

import (
	"errors"
	"math"
	"strconv"
)

var (
	// ErrDivisionByZero is returned when dividing by zero.
	ErrDivisionByZero = errors.New("can't divide by zero")

	// ErrUnknownOperation is returned for an operator this package does not know.
	ErrUnknownOperation = errors.New("unknown operation")

	// ErrNotFinite is returned when a result overflows to infinity.
	ErrNotFinite = errors.New("result is too large")
)

// Operation is a binary arithmetic operation.
type Operation string

const (
	OperationAdd      Operation = "add"
	OperationSubtract Operation = "subtract"
	OperationMultiply Operation = "multiply"
	OperationDivide   Operation = "divide"
)

// Apply computes a op b.
func (op Operation) Apply(a, b float64) (float64, error) {
	var result float64
	switch op {
	case OperationAdd:
		result = a + b
	case OperationSubtract:
		result = a - b
	case OperationMultiply:
		result = a * b
	case OperationDivide:
		if b == 0 {
			return 0, ErrDivisionByZero
		}
		result = a / b
	default:
		return 0, ErrUnknownOperation
	}

	if math.IsInf(result, 0) || math.IsNaN(result) {
		return 0, ErrNotFinite
	}
	return result, nil
}

// FormatNumber renders f without trailing zeros.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
