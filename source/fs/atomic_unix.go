//go:build unix

package fs

import (
	"os"

	"github.com/google/renameio/v2"
)

// writeAtomic replaces path through a pending file in the same directory.
func writeAtomic(path string, data []byte, mode os.FileMode) error {
	return renameio.WriteFile(path, data, mode)
}
