/*
Package structio reads and writes fixed-layout structs as raw memory images.

It's meant for parsing binary formats with fixed headers (ELF, archive
headers, record files) where the on-disk layout is exactly the in-memory
layout of a Go struct:

	type FileHeader struct {
		Magic   uint32
		Version uint16
		Flags   uint16
		Offset  uint64
	}

	var hdr FileHeader
	err := structio.Read(f, &hdr)

No conversion of any kind is applied: bytes go straight from the reader into
the struct's memory, native byte order, native padding. It is not endian
safe: correctness depends on producer and consumer agreeing on the layout.

Only use it with plain structs: fixed-size fields, no pointers, no slices,
no maps, no strings. The package can't check this; passing a type with
indirections reads garbage into them.
*/
package structio
