// Package rom loads a cartridge image from disk, enforcing the minimum
// size the Bus's ROM region requires (spec §6, §7).
package rom

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
)

// MinSize is the smallest cartridge image this core accepts: a plain,
// unbanked 32 KiB ROM that fills the Bus's entire 0x0000-0x7FFF region
// (spec §6). The original Python loader performed no such check
// (SPEC_FULL.md §12, "Cartridge load validation"); this formalizes it.
const MinSize = 0x8000

// LoadError reports that a cartridge file was shorter than MinSize (spec
// §7). A file that cannot be read is not reported as a LoadError: Load
// returns the os.ReadFile error wrapped with the path instead.
type LoadError struct {
	Path string
	Size int
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("rom: %s is %d bytes, need at least %d", e.Path, e.Size, MinSize)
}

// Load reads the cartridge image at path and validates its length. The
// returned slice is the raw file contents, ready to hand to Bus.LoadROM.
func Load(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "rom: reading %s", path)
	}
	if len(data) < MinSize {
		return nil, &LoadError{Path: path, Size: len(data)}
	}
	return data, nil
}
