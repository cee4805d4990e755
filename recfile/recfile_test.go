package recfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert"

	"github.com/kjk/binutil/structio"
)

type sample struct {
	ID    uint32
	Score uint32
	When  int64
}

func testRecs() []sample {
	return []sample{
		{ID: 1, Score: 100, When: 1700000000},
		{ID: 2, Score: 250, When: 1700000060},
		{ID: 3, Score: 50, When: 1700000120},
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	recs := testRecs()
	// plain and one file per supported compression
	names := []string{"recs.bin", "recs.bin.gz", "recs.bin.zst", "recs.bin.br"}
	for _, name := range names {
		path := filepath.Join(t.TempDir(), name)
		err := WriteFile(path, recs)
		assert.NoError(t, err, name)

		got, err := ReadFileAll[sample](path)
		assert.NoError(t, err, name)
		assert.Equal(t, recs, got, name)
	}
}

func TestCompressedIsNotRawImage(t *testing.T) {
	recs := testRecs()
	path := filepath.Join(t.TempDir(), "recs.bin.gz")
	err := WriteFile(path, recs)
	assert.NoError(t, err)

	// the on-disk file is gzip, not the raw image
	d, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.True(t, len(d) > 2)
	assert.Equal(t, []byte{0x1f, 0x8b}, d[:2])

	// ...but ReadFileMaybeCompressed sees the raw image
	d, err = ReadFileMaybeCompressed(path)
	assert.NoError(t, err)
	assert.Len(t, d, len(recs)*structio.Size[sample]())
}

func TestReadFileCount(t *testing.T) {
	recs := testRecs()
	path := filepath.Join(t.TempDir(), "recs.bin")
	err := WriteFile(path, recs)
	assert.NoError(t, err)

	got, err := ReadFile[sample](path, 2)
	assert.NoError(t, err)
	assert.Equal(t, recs[:2], got)

	// more records than the file holds
	got, err = ReadFile[sample](path, 4)
	assert.True(t, errors.Is(err, structio.ErrReadStruct))
	assert.Nil(t, got)
}

func TestReadFileAllPartialRecord(t *testing.T) {
	recs := testRecs()
	path := filepath.Join(t.TempDir(), "recs.bin")
	err := WriteFile(path, recs)
	assert.NoError(t, err)

	// append a stray byte so the size is no longer a multiple
	// of the record size
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	assert.NoError(t, err)
	_, err = f.Write([]byte{0x42})
	assert.NoError(t, err)
	assert.NoError(t, f.Close())

	got, err := ReadFileAll[sample](path)
	assert.True(t, errors.Is(err, ErrPartialRecord))
	assert.Nil(t, got)
}

func TestReadFileAllEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.bin")
	err := WriteFile(path, []sample{})
	assert.NoError(t, err)

	got, err := ReadFileAll[sample](path)
	assert.NoError(t, err)
	assert.Len(t, got, 0)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := OpenFileMaybeCompressed(filepath.Join(t.TempDir(), "no-such-file.bin"))
	assert.Error(t, err)
}
