package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const usersBody = `{
  "users": [
    {"name": "ada", "active": true},
    {"name": "bob", "active": false}
  ]
}`

func TestApply(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"field projection", "users[].name", "[\n  \"ada\",\n  \"bob\"\n]"},
		{"filter expression", "users[?active].name | [0]", `"ada"`},
		{"missing field", "nothing", "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(usersBody, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApply_EmptyQueryIsIdentity(t *testing.T) {
	got, err := Apply("not json at all", "  ")
	require.NoError(t, err)
	assert.Equal(t, "not json at all", got)
}

func TestApply_Errors(t *testing.T) {
	_, err := Apply("<html>", "a")
	assert.Error(t, err)

	_, err = Apply(usersBody, "users[")
	assert.Error(t, err)
}

func TestIsJSONContentType(t *testing.T) {
	assert.True(t, IsJSONContentType("application/json"))
	assert.True(t, IsJSONContentType("Application/JSON; charset=utf-8"))
	assert.True(t, IsJSONContentType("application/problem+json"))
	assert.False(t, IsJSONContentType("text/html"))
	assert.False(t, IsJSONContentType(""))
}
