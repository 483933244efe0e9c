package parser

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiowebux/rhc/internal/types"
)

func TestLoadEnvironment(t *testing.T) {
	path := writeFile(t, t.TempDir(), "dev.toml", `
name = "dev"
variables = [
  { name = "base", value = "http://localhost:8080" },
  { name = "token", value = "abc" },
]
`)

	env, err := LoadEnvironment(path)
	require.NoError(t, err)
	assert.Equal(t, "dev", env.Name)
	assert.Equal(t, []types.KeyValue{
		{Name: "base", Value: "http://localhost:8080"},
		{Name: "token", Value: "abc"},
	}, env.Variables)
}

func TestLoadEnvironment_Duplicates(t *testing.T) {
	path := writeFile(t, t.TempDir(), "dup.yaml", `
name: dup
variables:
  - name: b
    value: "1"
  - name: a
    value: "1"
  - name: b
    value: "2"
  - name: a
    value: "3"
`)

	_, err := LoadEnvironment(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateVariables)
	assert.Contains(t, err.Error(), "a, b")
}

func TestLoadEnvironment_MissingName(t *testing.T) {
	path := writeFile(t, t.TempDir(), "noname.toml", `variables = []`)
	_, err := LoadEnvironment(path)
	assert.Error(t, err)
}

func TestListEnvironments(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "prod.toml", `name = "prod"`)
	writeFile(t, dir, "dev.yaml", "name: dev\n")
	writeFile(t, dir, "readme.md", "# not an environment")
	writeFile(t, dir, ".git/config.toml", `name = "hidden"`)

	envs, err := ListEnvironments(dir)
	require.NoError(t, err)
	require.Len(t, envs, 2)

	assert.Equal(t, filepath.Join(dir, "dev.yaml"), envs[0].Path)
	assert.Equal(t, "dev", envs[0].Env.Name)
	assert.Equal(t, filepath.Join(dir, "prod.toml"), envs[1].Path)
	assert.Equal(t, "prod", envs[1].Env.Name)
}

func TestListEnvironments_MissingDirectory(t *testing.T) {
	envs, err := ListEnvironments(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Empty(t, envs)
}

func TestListEnvironments_DuplicateIsHardError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ok.toml", `name = "ok"`)
	writeFile(t, dir, "bad.toml", `
name = "bad"
variables = [{ name = "x", value = "1" }, { name = "x", value = "2" }]
`)

	_, err := ListEnvironments(dir)
	assert.ErrorIs(t, err, ErrDuplicateVariables)
}

func TestParseBinding(t *testing.T) {
	tests := []struct {
		in      string
		want    types.KeyValue
		wantErr bool
	}{
		{in: "a=b", want: types.KeyValue{Name: "a", Value: "b"}},
		{in: "token=x=y", want: types.KeyValue{Name: "token", Value: "x=y"}},
		{in: "empty=", want: types.KeyValue{Name: "empty", Value: ""}},
		{in: "noequals", wantErr: true},
		{in: "=value", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBinding(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
