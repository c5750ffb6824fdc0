// Package fsutil holds small filesystem helpers shared by the store and the
// queue emitter. All helpers operate on an afero.Fs so callers can swap in an
// in-memory filesystem.
package fsutil

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// DirMode is used for every directory clawsched creates.
const DirMode os.FileMode = 0o755

// WriteFileAtomic writes data to a hidden temporary file next to path and
// renames it over path, so readers see either the old or the new content.
// Missing parent directories are created.
func WriteFileAtomic(fs afero.Fs, path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, DirMode); err != nil {
		return err
	}
	tmp, err := afero.TempFile(fs, dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = fs.Remove(name)
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = fs.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = fs.Remove(name)
		return err
	}
	if err := fs.Chmod(name, perm); err != nil {
		_ = fs.Remove(name)
		return err
	}
	if err := fs.Rename(name, path); err != nil {
		_ = fs.Remove(name)
		return err
	}
	return nil
}
