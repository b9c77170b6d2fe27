// Package glulx reads Glulx game images.
//
// An Image is a small value that views the caller's buffer: copying it copies the
// view, never the bytes. The buffer must stay alive and unmodified for as long as
// any Image derived from it is in use.
package glulx

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Magic is the identifier at offset 0 of every Glulx image.
const Magic = "Glul"

// HeaderSize is the size of the fixed header.
const HeaderSize = 36

// Header field offsets.
const (
	offVersion       = 4
	offRAMStart      = 8
	offExtStart      = 12
	offEndMem        = 16
	offStackSize     = 20
	offStartFunc     = 24
	offDecodingTable = 28
	offChecksum      = 32
)

// Inform compilers append an "Info" block directly after the fixed header.
const (
	debugMagic     = "Info"
	debugHeaderEnd = 60
)

// Header is the fixed 36-byte Glulx header. All fields are big-endian on disk.
type Header struct {
	Magic         [4]byte
	Version       uint32
	RAMStart      uint32
	ExtStart      uint32
	EndMem        uint32
	StackSize     uint32
	StartFunc     uint32
	DecodingTable uint32
	Checksum      uint32
}

func decodeHeader(b []byte) Header {
	var h Header
	copy(h.Magic[:], b[0:4])
	h.Version = binary.BigEndian.Uint32(b[offVersion:])
	h.RAMStart = binary.BigEndian.Uint32(b[offRAMStart:])
	h.ExtStart = binary.BigEndian.Uint32(b[offExtStart:])
	h.EndMem = binary.BigEndian.Uint32(b[offEndMem:])
	h.StackSize = binary.BigEndian.Uint32(b[offStackSize:])
	h.StartFunc = binary.BigEndian.Uint32(b[offStartFunc:])
	h.DecodingTable = binary.BigEndian.Uint32(b[offDecodingTable:])
	h.Checksum = binary.BigEndian.Uint32(b[offChecksum:])
	return h
}

// VersionString renders the packed version as major.minor.subminor.
func (h Header) VersionString() string {
	return formatVersion(h.Version)
}

func formatVersion(v uint32) string {
	return fmt.Sprintf("%d.%d.%d", v>>16, (v>>8)&0xff, v&0xff)
}

func (h Header) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Magic:           %s\n", string(h.Magic[:]))
	fmt.Fprintf(&b, "Version:         %s\n", h.VersionString())
	fmt.Fprintf(&b, "RAM start:       0x%08X\n", h.RAMStart)
	fmt.Fprintf(&b, "Ext start:       0x%08X\n", h.ExtStart)
	fmt.Fprintf(&b, "End mem:         0x%08X\n", h.EndMem)
	fmt.Fprintf(&b, "Stack size:      0x%08X\n", h.StackSize)
	fmt.Fprintf(&b, "Start function:  0x%08X\n", h.StartFunc)
	fmt.Fprintf(&b, "Decoding table:  0x%08X\n", h.DecodingTable)
	fmt.Fprintf(&b, "Checksum:        0x%08X", h.Checksum)
	return b.String()
}

// DebugHeader is the Inform identification block that follows the header.
type DebugHeader struct {
	Identifier    [4]byte
	MemoryLayout  uint32
	InformVersion string
	GlulxVersion  uint32
	Release       uint16
	Serial        string
}

func decodeDebugHeader(b []byte) (DebugHeader, bool) {
	if len(b) < debugHeaderEnd || string(b[HeaderSize:HeaderSize+4]) != debugMagic {
		return DebugHeader{}, false
	}
	var d DebugHeader
	copy(d.Identifier[:], b[36:40])
	d.MemoryLayout = binary.BigEndian.Uint32(b[40:44])
	d.InformVersion = asciiField(b[44:48])
	d.GlulxVersion = binary.BigEndian.Uint32(b[48:52])
	d.Release = binary.BigEndian.Uint16(b[52:54])
	d.Serial = asciiField(b[54:60])
	return d, true
}

func asciiField(b []byte) string {
	out := make([]byte, 0, len(b))
	for _, c := range b {
		if c == 0 {
			break
		}
		if c < 0x20 || c > 0x7e {
			c = '?'
		}
		out = append(out, c)
	}
	return string(out)
}

func (d DebugHeader) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Identifier:      %s\n", string(d.Identifier[:]))
	fmt.Fprintf(&b, "Memory layout:   %s\n", formatVersion(d.MemoryLayout))
	fmt.Fprintf(&b, "Inform version:  %s\n", d.InformVersion)
	fmt.Fprintf(&b, "Glulx version:   %s\n", formatVersion(d.GlulxVersion))
	fmt.Fprintf(&b, "Release:         %d\n", d.Release)
	fmt.Fprintf(&b, "Serial:          %s", d.Serial)
	return b.String()
}
