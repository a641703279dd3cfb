package rom

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadRejectsUndersizedImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tiny.gb")
	assert.NoError(t, os.WriteFile(path, make([]byte, 100), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
	var lerr *LoadError
	assert.ErrorAs(t, err, &lerr)
	assert.Equal(t, 100, lerr.Size)
}

func TestLoadAcceptsMinimumSizeImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "min.gb")
	data := make([]byte, MinSize)
	data[0x0100] = 0xC3 // JP nn, a plausible entry-point opcode
	assert.NoError(t, os.WriteFile(path, data, 0o644))

	loaded, err := Load(path)
	assert.NoError(t, err)
	assert.Len(t, loaded, MinSize)
	assert.Equal(t, byte(0xC3), loaded[0x0100])
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.gb"))
	assert.Error(t, err)
	var lerr *LoadError
	assert.False(t, errors.As(err, &lerr), "missing file should not be a LoadError")
}
