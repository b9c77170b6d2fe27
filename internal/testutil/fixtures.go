// Package testutil builds small Glulx images and Blorb containers for tests.
package testutil

import "encoding/binary"

// PutU32 writes v big-endian at off.
func PutU32(b []byte, off int, v uint32) {
	binary.BigEndian.PutUint32(b[off:], v)
}

// GlulxImage returns a size-byte image (size >= 36, a multiple of 4) with a
// plausible header: version 3.1.2, RAM and extent starting at size, no decoding
// table, and a correct checksum.
func GlulxImage(size int) []byte {
	b := make([]byte, size)
	copy(b, "Glul")
	PutU32(b, 4, 0x00030102)
	PutU32(b, 8, uint32(size))
	PutU32(b, 12, uint32(size))
	PutU32(b, 16, uint32(size))
	PutU32(b, 20, 0x1000)
	PutU32(b, 24, 0x24)
	FixChecksum(b)
	return b
}

// PutInfo writes an Inform "Info" block at offset 36. b must be at least 60 bytes.
func PutInfo(b []byte, inform string, release uint16, serial string) {
	copy(b[36:], "Info")
	PutU32(b, 40, 0x00010000)
	copy(b[44:48], inform)
	PutU32(b, 48, 0x00000502)
	binary.BigEndian.PutUint16(b[52:], release)
	copy(b[54:60], serial)
}

// FixChecksum stores the checksum of b[0:extstart] in the header.
func FixChecksum(b []byte) {
	ext := int(binary.BigEndian.Uint32(b[12:]))
	if ext > len(b) {
		ext = len(b)
	}
	PutU32(b, 32, 0)
	var sum uint32
	for off := 0; off+4 <= ext; off += 4 {
		sum += binary.BigEndian.Uint32(b[off:])
	}
	PutU32(b, 32, sum)
}

type blorbChunk struct {
	tag     string
	payload []byte
	usage   string
	id      int32
	indexed bool
}

// Blorb assembles a Blorb container: FORM/IFRS, an RIdx chunk, then the added
// chunks in order.
type Blorb struct {
	chunks []blorbChunk
}

// NewBlorb returns an empty builder.
func NewBlorb() *Blorb {
	return &Blorb{}
}

// Resource adds a chunk and an index entry pointing at it.
func (b *Blorb) Resource(usage string, id int32, tag string, payload []byte) *Blorb {
	b.chunks = append(b.chunks, blorbChunk{tag: tag, payload: payload, usage: usage, id: id, indexed: true})
	return b
}

// Chunk adds a chunk that is not listed in the index.
func (b *Blorb) Chunk(tag string, payload []byte) *Blorb {
	b.chunks = append(b.chunks, blorbChunk{tag: tag, payload: payload})
	return b
}

// Offsets returns the absolute chunk offsets Bytes will produce, in add order.
func (b *Blorb) Offsets() []uint32 {
	indexed := 0
	for _, c := range b.chunks {
		if c.indexed {
			indexed++
		}
	}
	off := uint32(12 + 8 + 4 + 12*indexed)
	out := make([]uint32, len(b.chunks))
	for i, c := range b.chunks {
		out[i] = off
		n := uint32(len(c.payload))
		off += 8 + n + n&1
	}
	return out
}

// Bytes renders the container.
func (b *Blorb) Bytes() []byte {
	offsets := b.Offsets()

	var idx []byte
	count := 0
	for i, c := range b.chunks {
		if !c.indexed {
			continue
		}
		count++
		e := make([]byte, 12)
		copy(e, c.usage)
		PutU32(e, 4, uint32(c.id))
		PutU32(e, 8, offsets[i])
		idx = append(idx, e...)
	}
	ridx := make([]byte, 4, 4+len(idx))
	PutU32(ridx, 0, uint32(count))
	ridx = append(ridx, idx...)

	body := []byte("IFRS")
	body = appendChunk(body, "RIdx", ridx)
	for _, c := range b.chunks {
		body = appendChunk(body, c.tag, c.payload)
	}

	out := make([]byte, 8, 8+len(body))
	copy(out, "FORM")
	PutU32(out, 4, uint32(len(body)))
	return append(out, body...)
}

func appendChunk(dst []byte, tag string, payload []byte) []byte {
	hdr := make([]byte, 8)
	copy(hdr, tag)
	PutU32(hdr, 4, uint32(len(payload)))
	dst = append(dst, hdr...)
	dst = append(dst, payload...)
	if len(payload)%2 == 1 {
		dst = append(dst, 0)
	}
	return dst
}
