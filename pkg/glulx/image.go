package glulx

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/samcharles93/blorbview/pkg/readerr"
)

// ErrChecksumMismatch is returned by VerifyChecksum when the stored and computed sums differ.
var ErrChecksumMismatch = errors.New("glulx: checksum mismatch")

// Image is a parsed Glulx game image.
type Image struct {
	data     []byte
	header   Header
	debug    DebugHeader
	hasDebug bool
}

// Parse validates the magic and reads the fixed header of a Glulx image.
// The debug header is picked up when present; its absence is not an error.
func Parse(data []byte) (Image, error) {
	if len(data) < len(Magic) {
		return Image{}, readerr.InvalidLength(len(data), HeaderSize, "glulx header")
	}
	if string(data[:len(Magic)]) != Magic {
		return Image{}, readerr.UnexpectedIdentifier(Magic, "glulx magic")
	}
	if len(data) < HeaderSize {
		return Image{}, readerr.InvalidLength(len(data), HeaderSize, "glulx header")
	}

	img := Image{
		data:   data,
		header: decodeHeader(data[:HeaderSize]),
	}
	img.debug, img.hasDebug = decodeDebugHeader(data)
	return img, nil
}

// Header returns the fixed header.
func (img Image) Header() Header {
	return img.header
}

// DebugHeader returns the Inform identification block, if the image has one.
func (img Image) DebugHeader() (DebugHeader, bool) {
	return img.debug, img.hasDebug
}

// Bytes returns the image bytes the view covers.
func (img Image) Bytes() []byte {
	return img.data
}

// VerifyChecksum recomputes the header checksum: the sum of every 32-bit word in
// [0, ExtStart) with the checksum field itself counted as zero.
func (img Image) VerifyChecksum() error {
	ext := uint64(img.header.ExtStart)
	if ext < HeaderSize || ext%4 != 0 {
		return readerr.InvalidConversion(fmt.Sprintf("extstart 0x%X is not a word-aligned image size", ext))
	}
	if ext > uint64(len(img.data)) {
		return readerr.InvalidLength(len(img.data), int(ext), "extstart beyond image")
	}
	var sum uint32
	for off := uint64(0); off < ext; off += 4 {
		if off == offChecksum {
			continue
		}
		sum += binary.BigEndian.Uint32(img.data[off:])
	}
	if sum != img.header.Checksum {
		return fmt.Errorf("%w: computed 0x%08X, header 0x%08X", ErrChecksumMismatch, sum, img.header.Checksum)
	}
	return nil
}

func (img Image) u32At(addr uint64) (uint32, bool) {
	if addr+4 > uint64(len(img.data)) {
		return 0, false
	}
	return binary.BigEndian.Uint32(img.data[addr:]), true
}

func (img Image) byteAt(addr uint64) (byte, bool) {
	if addr >= uint64(len(img.data)) {
		return 0, false
	}
	return img.data[addr], true
}
