package util

import (
	"os"
	"path"
)

// FileMode is the default FileMode used when creating files.
const FileMode = 0664

// DirMode is the default FileMode used when creating directories.
const DirMode = 0775

// FileExists checks whether some file exists.
func FileExists(file string) bool {
	stat, err := os.Stat(file)
	return err == nil && !stat.IsDir()
}

// DirExists checks whether some directory exists.
func DirExists(dir string) bool {
	stat, err := os.Stat(dir)
	return err == nil && stat.IsDir()
}

// WriteFile creates the parent directory of `file` if needed and writes `data` to it.
func WriteFile(file string, data []byte) error {
	if err := os.MkdirAll(path.Dir(file), DirMode); err != nil {
		return err
	}
	return os.WriteFile(file, data, FileMode)
}
