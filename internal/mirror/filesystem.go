package mirror

import (
	"io/fs"
	"os"
)

// WorkspaceFileSystem abstracts the filesystem operations used to manage local mirror directories.
type WorkspaceFileSystem interface {
	// Stat retrieves metadata for a path.
	Stat(path string) (fs.FileInfo, error)
	// RemoveAll recursively deletes a path.
	RemoveAll(path string) error
}

// OSWorkspaceFileSystem implements WorkspaceFileSystem using the operating system primitives.
type OSWorkspaceFileSystem struct{}

// Stat retrieves file metadata.
func (OSWorkspaceFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// RemoveAll recursively deletes a path.
func (OSWorkspaceFileSystem) RemoveAll(path string) error {
	return os.RemoveAll(path)
}
