package blorb

import "unicode/utf8"

// Optional chunks are advisory: a missing or malformed chunk reads as absent.

// Frontispiece returns the picture number named by the Fspc chunk.
func (c *Container) Frontispiece() (int32, bool) {
	ch, ok, _ := c.find(TagFspc)
	if !ok || len(ch.Data) < 4 {
		return 0, false
	}
	return int32(be32(ch.Data[0:4])), true
}

// Metadata returns the iFiction XML record stored in the IFmd chunk.
func (c *Container) Metadata() ([]byte, bool) {
	ch, ok, _ := c.find(TagIFmd)
	if !ok {
		return nil, false
	}
	return ch.Data, true
}

// Description returns the textual description of a resource from the RDes chunk.
func (c *Container) Description(u Usage, id int32) (string, bool) {
	ch, ok, _ := c.find(TagRDes)
	if !ok || len(ch.Data) < 4 {
		return "", false
	}
	p := ch.Data
	count := be32(p[0:4])
	off := uint64(4)
	for range count {
		if off+12 > uint64(len(p)) {
			return "", false
		}
		b := p[off : off+12]
		n := uint64(be32(b[8:12]))
		text := off + 12
		if text+n > uint64(len(p)) {
			return "", false
		}
		if Usage(b[0:4]) == u && int32(be32(b[4:8])) == id {
			s := p[text : text+n]
			if !utf8.Valid(s) {
				return "", false
			}
			return string(s), true
		}
		off = text + n
	}
	return "", false
}
