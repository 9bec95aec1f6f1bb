package jsonmap

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) map[string]any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var m map[string]any
	require.NoError(t, dec.Decode(&m))
	return m
}

func TestAccessorsTolerateMixedTypes(t *testing.T) {
	m := decode(t, `{
		"name": "Arroz",
		"price": 12.5,
		"price_str": "9.90",
		"count": 7,
		"ok": true,
		"nested": {"id": 3},
		"items": [1, 2]
	}`)

	assert.Equal(t, "Arroz", Str(m, "name"))
	assert.Equal(t, "7", Str(m, "count"))
	assert.InDelta(t, 12.5, Float(m, "price"), 1e-9)
	assert.InDelta(t, 9.9, Float(m, "price_str"), 1e-9)
	assert.Equal(t, 7, Int(m, "count"))
	assert.Equal(t, 12, Int(m, "price"))
	assert.True(t, Bool(m, "ok"))
	assert.Equal(t, 3, Int(Map(m, "nested"), "id"))
	assert.Len(t, Slice(m, "items"), 2)
}

func TestZeroValuesOnMissingOrWrongType(t *testing.T) {
	m := decode(t, `{"name": 1}`)

	assert.Empty(t, Str(m, "missing"))
	assert.Zero(t, Float(m, "missing"))
	assert.Zero(t, Int(m, "name2"))
	assert.False(t, Bool(m, "name"))
	assert.Nil(t, Map(m, "name"))
	assert.Nil(t, Slice(m, "name"))
}

func TestStrOr(t *testing.T) {
	m := decode(t, `{"a": "", "b": "x"}`)

	assert.Equal(t, "x", StrOr(m, "NA", "a", "b"))
	assert.Equal(t, "NA", StrOr(m, "NA", "a", "c"))
}
