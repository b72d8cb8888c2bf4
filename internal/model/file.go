package model

import (
	"fmt"
	"os"

	"github.com/modl-ml/modl/internal/schema"
)

// File provides memory-mapped access to a model file. The mapping is
// read-only and the buffer is consumed in place: opening a file touches no
// body bytes until a field is actually requested through Root, and any
// number of goroutines may read concurrently.
//
// Always call Close when done to unmap the file (use defer).
type File struct {
	file   *os.File
	data   []byte // mmap'd region (read-only)
	closed bool
}

// OpenFile memory-maps a model file.
//
//nolint:gosec // G304: path comes from trusted caller, not user input.
func OpenFile(path string) (*File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("stat file: %w", err)
	}

	data, err := mmapFile(file, stat.Size())
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("mmap failed: %w", err)
	}

	return &File{file: file, data: data}, nil
}

// Bytes returns the mapped buffer, zero-copy. The slice is valid only while
// the file is open and must not be mutated.
func (f *File) Bytes() []byte {
	return f.data
}

// HasIdentifier reports whether the mapped buffer carries the MODL
// identifier.
func (f *File) HasIdentifier() bool {
	return schema.BufferHasIdentifier(f.data)
}

// Root returns the lazy root view over the mapping. Field accesses resolve
// directly against the mapped bytes; nothing is copied until asked for.
func (f *File) Root() (schema.Model, error) {
	if f.closed {
		return schema.Model{}, fmt.Errorf("file is closed")
	}
	return schema.GetRootAsModel(f.data)
}

// Decode materializes the whole model. The result owns its memory and stays
// valid after Close.
func (f *File) Decode(opts DecodeOptions) (*Model, error) {
	if f.closed {
		return nil, fmt.Errorf("file is closed")
	}
	return DecodeWithOptions(f.data, opts)
}

// Close unmaps and closes the file.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true

	var err error
	if f.data != nil {
		err = munmapFile(f.data)
		f.data = nil
	}
	if closeErr := f.file.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}

// Load reads and materializes a model file in one call.
func Load(path string, opts DecodeOptions) (*Model, error) {
	f, err := OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close() // Ignore close error on read-only mapping.
	}()
	return f.Decode(opts)
}

// Save encodes m and writes it to path.
func Save(path string, m *Model) error {
	buf, err := Encode(m)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil { //nolint:gosec // G306: model files are not secrets.
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
