package executor

import (
	stderrors "errors"
	"io/fs"
	"os"
)

// renameChecked refuses to replace an existing target, then renames. The check and
// the rename are two steps, so a target created in between is still overwritten;
// platforms with an atomic no-replace rename use that instead.
func renameChecked(oldpath, newpath string) error {
	_, err := os.Lstat(newpath)
	if err == nil {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: fs.ErrExist}
	}
	if !stderrors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.Rename(oldpath, newpath)
}
