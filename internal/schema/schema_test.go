package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRecord struct {
	Name      string  `validate:"required"`
	PriceTo   float64 `validate:"gte=0"`
	Available string  `validate:"oneof=S N"`
}

func TestCheckValid(t *testing.T) {
	c := New()

	msgs := c.Check(sampleRecord{Name: "ARROZ", PriceTo: 9.99, Available: "S"})
	assert.Empty(t, msgs)
}

func TestCheckCollectsAllFailures(t *testing.T) {
	c := New()

	msgs := c.Check(sampleRecord{Name: "", PriceTo: -1, Available: "maybe"})
	require.Len(t, msgs, 3)
	assert.Contains(t, msgs[0], "Name")
	assert.Contains(t, msgs[1], "PriceTo")
	assert.Contains(t, msgs[2], "Available")
}

func TestCheckAllStopsAtFirstInvalid(t *testing.T) {
	c := New()

	recs := []sampleRecord{
		{Name: "FEIJAO", PriceTo: 5, Available: "S"},
		{Name: "", PriceTo: 3, Available: "N"},
		{Name: "", PriceTo: -2, Available: "?"},
	}

	idx, msgs := CheckAll(c, recs)
	assert.Equal(t, 1, idx)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "Name")
}

func TestCheckAllEmpty(t *testing.T) {
	c := New()

	idx, msgs := CheckAll(c, []sampleRecord{})
	assert.Equal(t, -1, idx)
	assert.Empty(t, msgs)
}
