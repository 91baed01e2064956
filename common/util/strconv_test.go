package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFloat(t *testing.T) {
	v, err := ParseFloat[float32]("4.5")
	assert.NoError(t, err)
	assert.Equal(t, float32(4.5), v)
	_, err = ParseFloat[float32]("abc")
	assert.Error(t, err)
}

func TestParseInt(t *testing.T) {
	v, err := ParseInt[int32]("42")
	assert.NoError(t, err)
	assert.Equal(t, int32(42), v)
	_, err = ParseInt[int32]("4.5")
	assert.Error(t, err)
}
