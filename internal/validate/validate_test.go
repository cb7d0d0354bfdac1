package validate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Price float64 `json:"price" validate:"gte=0"`
	Items []item  `json:"items" validate:"dive"`
}

type item struct {
	Name string `json:"name" validate:"required"`
}

func TestStruct_ReportsJSONFieldNames(t *testing.T) {
	v := New()

	require.NoError(t, v.Struct(sample{Price: 1, Items: []item{{Name: "a"}}}))

	err := v.Struct(sample{Price: -1, Items: []item{{}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "price failed gte=0")
	assert.Contains(t, err.Error(), "items[0].name failed required")
}

type bounds struct {
	Upper float64  `json:"upperLimit" validate:"finite"`
	Rate  *float64 `json:"rate" validate:"omitempty,finite"`
}

func TestStruct_FiniteRejectsInfinityAndNaN(t *testing.T) {
	v := New()

	require.NoError(t, v.Struct(bounds{Upper: 1e6}))

	err := v.Struct(bounds{Upper: math.Inf(1)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upperLimit failed finite")

	nan := math.NaN()
	err = v.Struct(bounds{Upper: 1, Rate: &nan})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate failed finite")
}
