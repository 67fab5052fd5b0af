package repository

import "github.com/spf13/afero"

// FileSystemRepository is the filesystem seen by identity lookup and the
// release state store.
type FileSystemRepository interface {
	afero.Fs
}

// NewOsFileSystem returns the host filesystem.
func NewOsFileSystem() FileSystemRepository {
	return afero.NewOsFs()
}
