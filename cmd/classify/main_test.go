package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLabels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.txt")
	require.NoError(t, os.WriteFile(path, []byte("cat\n\n  dog \nbird\n"), 0o600))

	labels, err := readLabels(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"cat", "dog", "bird"}, labels)
}

func TestReadLabels_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.txt")
	require.NoError(t, os.WriteFile(path, []byte("\n \n"), 0o600))

	_, err := readLabels(path)
	assert.Error(t, err)
}
