// Package elffile parses the fixed-size parts of ELF64 files (the file
// header and the program / section header tables) as raw memory images
// via structio.
//
// Because structio is not endian safe, only files whose byte order
// matches the host can be parsed; mismatches are rejected up front.
package elffile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/kjk/binutil/structio"
)

// e_ident layout, per the ELF64 ABI
const (
	idxClass   = 4
	idxData    = 5
	idxVersion = 6

	class64        = 2
	data2LSB       = 1
	data2MSB       = 2
	versionCurrent = 1
)

var elfMagic = []byte{0x7f, 'E', 'L', 'F'}

// Header64 is the ELF64 file header, laid out exactly as on disk.
type Header64 struct {
	Ident     [16]byte
	Type      uint16
	Machine   uint16
	Version   uint32
	Entry     uint64
	Phoff     uint64
	Shoff     uint64
	Flags     uint32
	Ehsize    uint16
	Phentsize uint16
	Phnum     uint16
	Shentsize uint16
	Shnum     uint16
	Shstrndx  uint16
}

// ProgHeader64 is one entry of the ELF64 program header table.
type ProgHeader64 struct {
	Type   uint32
	Flags  uint32
	Off    uint64
	Vaddr  uint64
	Paddr  uint64
	Filesz uint64
	Memsz  uint64
	Align  uint64
}

// SectionHeader64 is one entry of the ELF64 section header table.
type SectionHeader64 struct {
	Name      uint32
	Type      uint32
	Flags     uint64
	Addr      uint64
	Off       uint64
	Size      uint64
	Link      uint32
	Info      uint32
	Addralign uint64
	Entsize   uint64
}

// File is the parsed fixed-size part of an ELF64 file.
type File struct {
	Header   Header64
	Progs    []ProgHeader64
	Sections []SectionHeader64
}

// HostData returns the e_ident[EI_DATA] value for the byte order this
// process runs with. Only files with matching byte order can be parsed.
func HostData() byte {
	if binary.NativeEndian.Uint16([]byte{1, 0}) == 1 {
		return data2LSB
	}
	return data2MSB
}

// ReadHeader reads the ELF64 file header from r and validates its
// identification bytes: magic, 64-bit class, host byte order, version.
func ReadHeader(r io.Reader) (*Header64, error) {
	var hdr Header64
	if err := structio.Read(r, &hdr); err != nil {
		return nil, err
	}
	if !bytes.Equal(hdr.Ident[:4], elfMagic) {
		return nil, fmt.Errorf("bad ELF magic % x", hdr.Ident[:4])
	}
	if hdr.Ident[idxClass] != class64 {
		return nil, fmt.Errorf("unsupported ELF class %d, only 64-bit is supported", hdr.Ident[idxClass])
	}
	if hdr.Ident[idxData] != HostData() {
		return nil, fmt.Errorf("ELF byte order %d doesn't match host byte order %d", hdr.Ident[idxData], HostData())
	}
	if hdr.Ident[idxVersion] != versionCurrent {
		return nil, fmt.Errorf("unsupported ELF version %d", hdr.Ident[idxVersion])
	}
	return &hdr, nil
}

// Read parses the file header and the program and section header tables.
func Read(r io.ReadSeeker) (*File, error) {
	hdr, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}
	f := &File{Header: *hdr}
	if hdr.Phnum > 0 {
		if int(hdr.Phentsize) != structio.Size[ProgHeader64]() {
			return nil, fmt.Errorf("unexpected program header entry size %d", hdr.Phentsize)
		}
		if _, err = r.Seek(int64(hdr.Phoff), io.SeekStart); err != nil {
			return nil, err
		}
		f.Progs, err = structio.ReadSlice[ProgHeader64](r, int(hdr.Phnum))
		if err != nil {
			return nil, err
		}
	}
	if hdr.Shnum > 0 {
		if int(hdr.Shentsize) != structio.Size[SectionHeader64]() {
			return nil, fmt.Errorf("unexpected section header entry size %d", hdr.Shentsize)
		}
		if _, err = r.Seek(int64(hdr.Shoff), io.SeekStart); err != nil {
			return nil, err
		}
		f.Sections, err = structio.ReadSlice[SectionHeader64](r, int(hdr.Shnum))
		if err != nil {
			return nil, err
		}
	}
	return f, nil
}
