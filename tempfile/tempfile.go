// Package tempfile creates the uniquely named spill files a spool buffer
// overflows into, and resolves the directory they live in. Spill files are
// removed from the filesystem when closed so they never outlive their owner.
package tempfile

import (
	"fmt"
	"os"
)

// filename prefix for spill files put in the temp directory
var spillFilenamePrefix = fmt.Sprintf("spool_%d_", os.Getpid())

// File is a uniquely named temporary file opened for reading and writing.
// Closing it removes it from disk; the close is unrecoverable.
type File struct {
	file *os.File
}

// New creates a spill file with a unique name inside dir.
// An empty dir resolves through GetTempDir.
func New(dir string) (*File, error) {
	if dir == "" {
		dir = GetTempDir("")
	}
	f, err := os.CreateTemp(dir, spillFilenamePrefix)
	if err != nil {
		return nil, err
	}
	return &File{file: f}, nil
}

// Name returns the path of the file on disk.
func (f *File) Name() string {
	return f.file.Name()
}

func (f *File) Write(p []byte) (int, error) {
	return f.file.Write(p)
}

func (f *File) Read(p []byte) (int, error) {
	return f.file.Read(p)
}

func (f *File) Seek(offset int64, whence int) (int64, error) {
	return f.file.Seek(offset, whence)
}

// Close closes the file and removes it from disk.
func (f *File) Close() error {
	err := f.file.Close()
	if rmErr := os.Remove(f.file.Name()); err == nil {
		err = rmErr
	}
	return err
}
