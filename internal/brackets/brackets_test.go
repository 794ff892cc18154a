package brackets

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxrecon/internal/domain"
)

func TestApplyIsMonotonicNonDecreasing(t *testing.T) {
	table := Lookup(2024, domain.Single).Ordinary
	prev := decimal.Zero
	for _, income := range []string{"0", "5000", "20000", "100000", "600000"} {
		tax := Apply(d(income), table)
		assert.True(t, tax.GreaterThanOrEqual(prev), "tax must be non-decreasing in income")
		prev = tax
	}
}

func TestApplyZeroBelowFloor(t *testing.T) {
	table := Lookup(2024, domain.Single).Ordinary
	assert.True(t, Apply(decimal.Zero, table).IsZero())
	assert.True(t, Apply(d("-100"), table).IsZero())
}

func TestLookupMissingPanics(t *testing.T) {
	assert.Panics(t, func() {
		Lookup(1999, domain.Single)
	})
}

func TestLookupPresent(t *testing.T) {
	table := Lookup(2024, domain.MarriedFilingJointly)
	require.NotEmpty(t, table.Ordinary)
	assert.True(t, table.SurtaxThreshold.Equal(d("250000")))
}
