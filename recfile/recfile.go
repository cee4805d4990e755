// Package recfile reads and writes files of fixed-size binary records,
// optionally compressed. The record layout is whatever structio produces:
// raw memory images, native byte order.
package recfile

import (
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"

	"github.com/kjk/binutil/structio"
)

var (
	// ErrPartialRecord is returned by ReadFileAll when the (decompressed)
	// file size is not an exact multiple of the record size
	ErrPartialRecord = errors.New("file size is not a multiple of record size")
)

// implement io.ReadCloser over os.File wrapped with a decompressing
// io.Reader. io.Closer goes to os.File, io.Reader to the wrapping reader
type readerWrappedFile struct {
	f *os.File
	r io.Reader
}

func (rc *readerWrappedFile) Read(p []byte) (int, error) {
	return rc.r.Read(p)
}

func (rc *readerWrappedFile) Close() error {
	return rc.f.Close()
}

func wrapInReadCloser(f *os.File, r io.Reader, err error) (io.ReadCloser, error) {
	if err != nil {
		f.Close()
		return nil, err
	}
	return &readerWrappedFile{f: f, r: r}, nil
}

// OpenFileMaybeCompressed opens a file that might be compressed with gzip
// or bzip2 or zstd or brotli, decompressing transparently based on the
// file extension.
func OpenFileMaybeCompressed(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		r, err := gzip.NewReader(f)
		return wrapInReadCloser(f, r, err)
	case ".bz2":
		return wrapInReadCloser(f, bzip2.NewReader(f), nil)
	case ".zst", ".zstd":
		r, err := zstd.NewReader(f)
		return wrapInReadCloser(f, r, err)
	case ".br":
		return wrapInReadCloser(f, brotli.NewReader(f), nil)
	}
	return f, nil
}

// ReadFileMaybeCompressed reads a file, decompressing by extension the
// same way OpenFileMaybeCompressed does.
func ReadFileMaybeCompressed(path string) ([]byte, error) {
	r, err := OpenFileMaybeCompressed(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// ReadFile reads n records of type T from a possibly compressed file.
// Returns structio.ErrReadStruct if the file holds fewer records.
func ReadFile[T any](path string, n int) ([]T, error) {
	r, err := OpenFileMaybeCompressed(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return structio.ReadSlice[T](r, n)
}

// ReadFileAll reads every record of type T in a possibly compressed file.
// The decompressed size must be an exact multiple of the record size,
// otherwise returns ErrPartialRecord.
func ReadFileAll[T any](path string) ([]T, error) {
	d, err := ReadFileMaybeCompressed(path)
	if err != nil {
		return nil, err
	}
	recSize := structio.Size[T]()
	if recSize == 0 {
		return []T{}, nil
	}
	if len(d)%recSize != 0 {
		return nil, ErrPartialRecord
	}
	return structio.ReadSlice[T](bytes.NewReader(d), len(d)/recSize)
}

func getErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteFile writes the raw byte image of recs to path, compressing by
// extension the same way OpenFileMaybeCompressed decompresses.
// The standard library can only read bzip2 so writing .bz2 is not
// supported. On error the file is removed.
func WriteFile[T any](path string, recs []T) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	var w io.Writer = f
	var cw io.WriteCloser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		cw, err = gzip.NewWriterLevel(f, gzip.BestCompression)
	case ".zst", ".zstd":
		cw, err = zstd.NewWriter(f)
	case ".br":
		cw = brotli.NewWriterLevel(f, brotli.DefaultCompression)
	}
	if err == nil {
		if cw != nil {
			w = cw
		}
		err = structio.WriteSlice(w, recs)
	}
	if err == nil && cw != nil {
		err = cw.Close()
	}
	err = getErr(err, f.Close())
	if err != nil {
		os.Remove(path)
		return err
	}
	return nil
}
