package utils

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolvePath(t *testing.T) {
	base := filepath.FromSlash("/project")
	tests := []struct {
		name string
		path string
		want string
	}{
		{"empty stays empty", "", ""},
		{"relative artifact", "artifacts/latest_run.json", filepath.Join(base, "artifacts", "latest_run.json")},
		{"parent reference", "../shared/dataset.csv", filepath.Join(filepath.Dir(base), "shared", "dataset.csv")},
		{"absolute unchanged", filepath.Join(base, "plots"), filepath.Join(base, "plots")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolvePath(tt.path, base))
		})
	}
}

func TestResolvePaths(t *testing.T) {
	base := filepath.FromSlash("/project/sub")

	assert.Nil(t, ResolvePaths(nil, base))
	assert.Nil(t, ResolvePaths([]string{}, base))

	got := ResolvePaths([]string{"dataset.csv", "", "../plots"}, base)
	assert.Equal(t, []string{
		filepath.Join(base, "dataset.csv"),
		"",
		filepath.Join(filepath.Dir(base), "plots"),
	}, got)
}
