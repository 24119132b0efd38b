package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequiredString(t *testing.T) {
	args := map[string]interface{}{"urlname": "go-meetup", "empty": "", "number": 42}

	v, err := RequiredString(args, "urlname")
	require.NoError(t, err)
	assert.Equal(t, "go-meetup", v)

	_, err = RequiredString(args, "empty")
	assert.Error(t, err)

	_, err = RequiredString(args, "number")
	assert.Error(t, err)

	_, err = RequiredString(args, "missing")
	assert.Error(t, err)
}

func TestOptionalInt(t *testing.T) {
	args := map[string]interface{}{"limit": float64(25), "bad": "nope"}

	assert.Equal(t, 25, OptionalInt(args, "limit", 10))
	assert.Equal(t, 10, OptionalInt(args, "bad", 10))
	assert.Equal(t, 10, OptionalInt(args, "missing", 10))
}

func TestOptionalFloat(t *testing.T) {
	args := map[string]interface{}{"lat": 52.52}

	lat := OptionalFloat(args, "lat")
	require.NotNil(t, lat)
	assert.Equal(t, 52.52, *lat)
	assert.Nil(t, OptionalFloat(args, "lon"))
}

func TestJSONResult(t *testing.T) {
	result := JSONResult(map[string]any{"id": "e-1"})
	require.NotNil(t, result)
	assert.False(t, result.IsError)
}
