//go:build windows

package ops

import (
	"os"

	"github.com/corentinmace/clockwork-sub000/internal/errors"
)

// openFileNoFollow opens a file for writing, rejecting symlinks on the
// final path component. Windows has no O_NOFOLLOW, so this checks with
// Lstat before opening; ValidatePath's parent-directory rules close the
// remaining gap on the MCP surface.
func openFileNoFollow(path string, flag int, perm os.FileMode) (*os.File, error) {
	if info, err := os.Lstat(path); err == nil {
		if info.Mode()&os.ModeSymlink != 0 {
			return nil, errors.NewInvalidRequest("cannot write to symlink")
		}
	}
	return os.OpenFile(path, flag, perm)
}
