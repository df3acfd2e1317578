//go:build !linux

package executor

func renameNoReplace(oldpath, newpath string) error {
	return renameChecked(oldpath, newpath)
}
