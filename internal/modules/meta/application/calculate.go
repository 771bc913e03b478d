package application

import (
	"fmt"

	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/meta/domain"
)

// CalculateInteractor handles the arithmetic commands.
type CalculateInteractor struct{}

// NewCalculateInteractor creates a new CalculateInteractor.
func NewCalculateInteractor() *CalculateInteractor {
	return &CalculateInteractor{}
}

// Execute applies op to a and b and returns the formatted result.
func (c *CalculateInteractor) Execute(op domain.Operation, a, b float64) (string, error) {
	result, err := op.Apply(a, b)
	if err != nil {
		return "", fmt.Errorf("failed to %s %s and %s: %w",
			op, domain.FormatNumber(a), domain.FormatNumber(b), err)
	}
	return domain.FormatNumber(result), nil
}
