package gamefile

import (
	"errors"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// ErrTooLarge is returned for files that cannot be addressed as a single []byte
// or whose offsets would not fit the 32-bit fields of either format.
var ErrTooLarge = errors.New("gamefile: file too large")

const maxFileSize = 1<<32 - 1

// File is a game loaded from disk. It owns the bytes every view in Game borrows,
// so it must stay open while any of those views is in use.
type File struct {
	Path string
	Data []byte
	Game Game

	mmapped bool
}

// Open maps a game file read-only and classifies it.
// If mmap is unavailable, it falls back to reading the whole file.
// The returned file must be closed to release any mapping.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	st, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size64 := st.Size()
	if size64 < 0 || size64 > maxFileSize || size64 > int64(int(^uint(0)>>1)) {
		return nil, ErrTooLarge
	}
	size := int(size64)

	if size > 0 {
		data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
		if err == nil {
			gf, parseErr := newFile(path, data, true)
			if parseErr != nil {
				_ = unix.Munmap(data)
				return nil, parseErr
			}
			return gf, nil
		}
	}

	data, err := readAllAt(f, size)
	if err != nil {
		return nil, err
	}
	return newFile(path, data, false)
}

// OpenReaderAt loads and classifies a game from a random-access reader without mmap.
func OpenReaderAt(r io.ReaderAt, size int64) (*File, error) {
	if size < 0 || size > maxFileSize {
		return nil, ErrTooLarge
	}
	data, err := readAllAt(r, int(size))
	if err != nil {
		return nil, err
	}
	return newFile("", data, false)
}

// OpenBytes classifies an in-memory buffer. The caller keeps ownership of data.
func OpenBytes(data []byte) (*File, error) {
	return newFile("", data, false)
}

func newFile(path string, data []byte, mmapped bool) (*File, error) {
	g, err := Classify(data)
	if err != nil {
		return nil, err
	}
	return &File{Path: path, Data: data, Game: g, mmapped: mmapped}, nil
}

func readAllAt(r io.ReaderAt, size int) ([]byte, error) {
	if size == 0 {
		return []byte{}, nil
	}
	out := make([]byte, size)
	var off int64
	for off < int64(size) {
		n, err := r.ReadAt(out[off:], off)
		off += int64(n)
		if err == nil {
			continue
		}
		if err == io.EOF && off == int64(size) {
			break
		}
		return nil, err
	}
	return out, nil
}

// Close releases the mapping. Views taken from the file are invalid afterwards.
func (f *File) Close() error {
	if f == nil || f.Data == nil {
		return nil
	}
	var err error
	if f.mmapped {
		err = unix.Munmap(f.Data)
	}
	f.Data = nil
	f.Game = Game{}
	f.mmapped = false
	return err
}
