package repository

import "github.com/spf13/afero"

// FileSystemRepository is the filesystem the changelog and journal are
// written through.
type FileSystemRepository interface {
	afero.Fs
}
