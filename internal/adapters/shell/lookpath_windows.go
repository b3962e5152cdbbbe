//go:build windows

package shell

import (
	"os"
	"path/filepath"
)

var windowsExtensions = []string{".exe", ".com", ".bat", ".cmd"}

func executableNames(path string) []string {
	if filepath.Ext(path) != "" {
		return []string{path}
	}
	names := make([]string, 0, len(windowsExtensions))
	for _, ext := range windowsExtensions {
		names = append(names, path+ext)
	}
	return names
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if d.IsDir() {
		return os.ErrPermission
	}
	return nil
}
