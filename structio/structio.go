package structio

import (
	"errors"
	"io"
	"unsafe"
)

var (
	// ErrReadStruct is returned when the input doesn't have enough bytes
	// to fill the struct. It covers end of stream, short read and I/O
	// failure uniformly; no detail about the cause is preserved.
	ErrReadStruct = errors.New("failed to read struct")
)

// rawBytes returns the memory of n values of type T starting at p as a
// byte slice of n*Size[T]() bytes. This is the only place in the package
// that reinterprets typed memory as raw bytes; all other code goes
// through the Read*/Write* wrappers. The result aliases *p.
func rawBytes[T any](p *T, n int) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(p)), n*int(unsafe.Sizeof(*p)))
}

// Size returns the in-memory size of T in bytes, including padding.
func Size[T any]() int {
	var v T
	return int(unsafe.Sizeof(v))
}

// Read fills *out with exactly Size[T]() bytes read from r, overwriting
// its previous contents entirely.
// Returns ErrReadStruct if fewer bytes are available; *out is then
// unspecified (possibly partially written) and must not be used.
// On success the reader's cursor has advanced by exactly Size[T]() bytes.
func Read[T any](r io.Reader, out *T) error {
	if _, err := io.ReadFull(r, rawBytes(out, 1)); err != nil {
		return ErrReadStruct
	}
	return nil
}

// ReadSlice reads n records of type T from r in one contiguous read of
// n*Size[T]() bytes and returns them as a freshly allocated slice, laid
// out the same as a native array of T.
// n == 0 is valid: it consumes nothing and returns an empty slice.
// Returns (nil, ErrReadStruct) if fewer bytes are available; the
// partially filled backing array is never exposed.
func ReadSlice[T any](r io.Reader, n int) ([]T, error) {
	out := make([]T, n)
	if n == 0 {
		return out, nil
	}
	if _, err := io.ReadFull(r, rawBytes(&out[0], n)); err != nil {
		return nil, ErrReadStruct
	}
	return out, nil
}

// Write writes the raw byte image of *v (Size[T]() bytes) to w.
func Write[T any](w io.Writer, v *T) error {
	_, err := w.Write(rawBytes(v, 1))
	return err
}

// WriteSlice writes the raw byte image of s (len(s)*Size[T]() bytes,
// contiguous, in slice order) to w.
func WriteSlice[T any](w io.Writer, s []T) error {
	if len(s) == 0 {
		return nil
	}
	_, err := w.Write(rawBytes(&s[0], len(s)))
	return err
}
