package executor

import (
	stderrors "errors"
	"os"

	"golang.org/x/sys/unix"
)

// renameNoReplace renames atomically and fails with EEXIST if newpath exists.
// Filesystems without RENAME_NOREPLACE support fall back to renameChecked.
func renameNoReplace(oldpath, newpath string) error {
	err := unix.Renameat2(unix.AT_FDCWD, oldpath, unix.AT_FDCWD, newpath, unix.RENAME_NOREPLACE)
	if err == nil {
		return nil
	}
	if stderrors.Is(err, unix.EINVAL) || stderrors.Is(err, unix.ENOSYS) || stderrors.Is(err, unix.EOPNOTSUPP) {
		return renameChecked(oldpath, newpath)
	}
	return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: err}
}
