// Package fileurl provides small filesystem path helpers.
package fileurl

import (
	"os"
	"path/filepath"
)

// IsExist determines if the given path exists
func IsExist(dst string) bool {
	_, err := os.Stat(dst)
	if err != nil {
		return os.IsExist(err)
	}
	return true
}

// IsDir determines if the given path is a directory
func IsDir(path string) bool {
	s, err := os.Stat(path)
	if err != nil {
		return false
	}
	return s.IsDir()
}

// IsFile determines if the given path is a file
func IsFile(path string) bool {
	return !IsDir(path)
}

// CreatePath creates the parent directory of dst
func CreatePath(dst string, perm os.FileMode) error {
	return os.MkdirAll(filepath.Dir(dst), perm)
}
