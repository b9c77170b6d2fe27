package blorb

import (
	"fmt"
	"slices"

	"github.com/samcharles93/blorbview/pkg/glulx"
	"github.com/samcharles93/blorbview/pkg/readerr"
)

// IndexEntry is one record of the resource index.
type IndexEntry struct {
	Usage Usage
	ID    int32
	// Offset is the absolute position of the resource's chunk header.
	Offset uint32
	// Kind is the kind of the chunk found at Offset.
	Kind Kind
}

// Container is a parsed Blorb file.
type Container struct {
	data  []byte
	size  uint32
	index []IndexEntry
}

// Parse validates the FORM header and the resource index of a Blorb file.
//
// Every chunk the index points at must have a readable header, a payload inside
// the form and a tag consistent with its usage. Payloads are not decoded.
func Parse(data []byte) (*Container, error) {
	if len(data) < formHeaderSize {
		return nil, readerr.InvalidLength(len(data), formHeaderSize, "form header")
	}
	if Tag(data[0:4]) != TagForm {
		return nil, readerr.UnexpectedIdentifier(string(TagForm), "container form")
	}
	size := be32(data[4:8])
	end := uint64(size) + chunkHeaderSize
	if end > uint64(len(data)) {
		return nil, readerr.InvalidLength(len(data), int(end), "declared form length")
	}
	if Tag(data[8:12]) != TagIFRS {
		return nil, readerr.UnexpectedIdentifier(string(TagIFRS), "form type")
	}

	c := &Container{
		data: data[:end:end],
		size: size,
	}

	idx, ok, err := c.find(TagRIdx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, readerr.UnexpectedIdentifier(string(TagRIdx), "resource index chunk not found")
	}
	entries, err := c.parseIndex(idx)
	if err != nil {
		return nil, err
	}
	c.index = entries
	return c, nil
}

// Size returns the declared FORM length.
func (c *Container) Size() uint32 {
	return c.size
}

// Bytes returns the form bytes the container views.
func (c *Container) Bytes() []byte {
	return c.data
}

// ChunkAt reads the chunk whose header starts at off.
// The payload is returned as a view; nothing is copied.
func (c *Container) ChunkAt(off uint32) (Chunk, error) {
	n := uint64(len(c.data))
	start := uint64(off)
	if start+chunkHeaderSize > n {
		return Chunk{}, readerr.InvalidLength(len(c.data), int(start+chunkHeaderSize),
			fmt.Sprintf("chunk header at %d", off))
	}
	hdr := c.data[start : start+chunkHeaderSize]
	if !printable(hdr[0:4]) {
		return Chunk{}, readerr.InvalidConversion(fmt.Sprintf("chunk tag % x at %d is not printable", hdr[0:4], off))
	}
	tag := Tag(hdr[0:4])
	length := be32(hdr[4:8])
	body := start + chunkHeaderSize
	end := body + uint64(length)
	if end > n {
		return Chunk{}, readerr.InvalidLength(len(c.data), int(end),
			fmt.Sprintf("chunk %q at %d", tag, off))
	}
	return Chunk{
		Tag:    tag,
		Kind:   KindOf(tag),
		Offset: off,
		Length: length,
		Data:   c.data[body:end:end],
		raw:    c.data[start:end:end],
	}, nil
}

// Chunks walks the top-level chunks in file order, honouring IFF padding.
func (c *Container) Chunks() ([]Chunk, error) {
	var out []Chunk
	err := c.walk(func(ch Chunk) bool {
		out = append(out, ch)
		return true
	})
	return out, err
}

func (c *Container) walk(fn func(Chunk) bool) error {
	off := uint64(formHeaderSize)
	for off < uint64(len(c.data)) {
		ch, err := c.ChunkAt(uint32(off))
		if err != nil {
			return err
		}
		if !fn(ch) {
			return nil
		}
		off = ch.next()
	}
	return nil
}

// find returns the first top-level chunk tagged t.
func (c *Container) find(t Tag) (Chunk, bool, error) {
	var (
		found Chunk
		ok    bool
	)
	err := c.walk(func(ch Chunk) bool {
		if ch.Tag == t {
			found, ok = ch, true
			return false
		}
		return true
	})
	if ok {
		return found, true, nil
	}
	return Chunk{}, false, err
}

// Index returns a copy of the resource index in file order.
func (c *Container) Index() []IndexEntry {
	return slices.Clone(c.index)
}

// IDs returns the resource numbers recorded for u, in index order.
func (c *Container) IDs(u Usage) []int32 {
	var ids []int32
	for _, e := range c.index {
		if e.Usage == u {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// IDsOfKind returns the numbers of indexed resources whose chunk kind is k, in
// index order. Use it to split sounds into sampled, MOD and song resources.
func (c *Container) IDsOfKind(k Kind) []int32 {
	var ids []int32
	for _, e := range c.index {
		if e.Kind == k {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// Resource returns the chunk recorded under (u, id).
func (c *Container) Resource(u Usage, id int32) (Chunk, error) {
	for _, e := range c.index {
		if e.Usage == u && e.ID == id {
			return c.ChunkAt(e.Offset)
		}
	}
	return Chunk{}, readerr.UnknownIdentifier(int64(id), fmt.Sprintf("no %s resource", u))
}

// Executable parses the n-th executable resource (0-based, index order) as a Glulx image.
func (c *Container) Executable(n int) (glulx.Image, error) {
	if n >= 0 {
		seen := 0
		for _, e := range c.index {
			if e.Usage != UsageExecutable {
				continue
			}
			if seen < n {
				seen++
				continue
			}
			ch, err := c.ChunkAt(e.Offset)
			if err != nil {
				return glulx.Image{}, err
			}
			if ch.Tag != TagGLUL {
				return glulx.Image{}, readerr.Unsupported(fmt.Sprintf("executable %d is a %q chunk, not a Glulx image", e.ID, ch.Tag))
			}
			return glulx.Parse(ch.Data)
		}
	}
	return glulx.Image{}, readerr.UnknownIdentifier(int64(n), "executable index out of range")
}
