package domain

import (
	"errors"
	"math"
	"testing"
)

func TestOperation_Apply(t *testing.T) {
	tests := []struct {
		name    string
		op      Operation
		a, b    float64
		want    float64
		wantErr error
	}{
		{name: "add", op: OperationAdd, a: 1.5, b: 2, want: 3.5},
		{name: "subtract", op: OperationSubtract, a: 1, b: 3, want: -2},
		{name: "multiply", op: OperationMultiply, a: 4, b: 2.5, want: 10},
		{name: "divide", op: OperationDivide, a: 9, b: 4, want: 2.25},
		{name: "divide by zero", op: OperationDivide, a: 1, b: 0, wantErr: ErrDivisionByZero},
		{name: "overflow", op: OperationMultiply, a: math.MaxFloat64, b: 2, wantErr: ErrNotFinite},
		{name: "unknown", op: Operation("modulo"), a: 1, b: 1, wantErr: ErrUnknownOperation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.op.Apply(tt.a, tt.b)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestFormatNumber(t *testing.T) {
	tests := map[float64]string{
		3:    "3",
		2.25: "2.25",
		-0.5: "-0.5",
		1e21: "1e+21",
	}
	for in, want := range tests {
		if got := FormatNumber(in); got != want {
			t.Errorf("FormatNumber(%v) = %q, want %q", in, got, want)
		}
	}
}
