package glulx

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/samcharles93/blorbview/pkg/readerr"
)

// Decoding table node types.
const (
	nodeBranch         = 0x00
	nodeTerminator     = 0x01
	nodeChar           = 0x02
	nodeCString        = 0x03
	nodeUnicodeChar    = 0x04
	nodeUnicodeString  = 0x05
	nodeIndirect       = 0x08
	nodeDoubleIndirect = 0x09
	nodeIndirectArgs   = 0x0A
	nodeDoubleArgs     = 0x0B
)

// Nested string references deeper than this render as a placeholder.
const maxIndirectDepth = 4

// decodingTable is the Huffman tree named by the header. The table starts with
// its byte length, node count and root node address; nodes use absolute addresses.
type decodingTable struct {
	img  Image
	root uint64
}

func (img Image) decodingTable() (decodingTable, error) {
	addr := uint64(img.header.DecodingTable)
	if addr == 0 {
		return decodingTable{}, readerr.Unsupported("image has no string decoding table")
	}
	root, ok := img.u32At(addr + 8)
	if !ok {
		return decodingTable{}, readerr.InvalidLength(len(img.data), int(addr)+12, "decoding table header")
	}
	t := decodingTable{img: img, root: uint64(root)}
	typ, ok := img.byteAt(t.root)
	if !ok {
		return decodingTable{}, readerr.InvalidLength(len(img.data), int(root)+1, "decoding table root")
	}
	// A leaf root other than the terminator would emit forever without reading a bit.
	if typ != nodeBranch && typ != nodeTerminator {
		return decodingTable{}, readerr.InvalidConversion(fmt.Sprintf("decoding table root has node type 0x%02X", typ))
	}
	return t, nil
}

type bitReader struct {
	p   []byte
	pos int
}

func (r *bitReader) next() (uint8, bool) {
	i := r.pos >> 3
	if i >= len(r.p) {
		return 0, false
	}
	bit := (r.p[i] >> (r.pos & 7)) & 1
	r.pos++
	return bit, true
}

func (r *bitReader) consumed() int {
	return (r.pos + 7) >> 3
}

func decodeCompressed(img Image, body []byte, st decodeState) (string, int, error) {
	t, err := img.decodingTable()
	if err != nil {
		return "", 0, err
	}

	bits := bitReader{p: body}
	var b strings.Builder
	emit := func(s string) bool {
		if !st.spend(len(s)) {
			return false
		}
		b.WriteString(s)
		return true
	}

	node := t.root
	for {
		if !st.spend(1) {
			return "", 0, st.overrun()
		}
		typ, ok := img.byteAt(node)
		if !ok {
			return "", 0, readerr.InvalidLength(len(img.data), int(node)+1, "decoding table node")
		}

		switch typ {
		case nodeBranch:
			bit, ok := bits.next()
			if !ok {
				return "", 0, readerr.InvalidLength(len(body), bits.consumed()+1, "compressed string ended before terminator")
			}
			child, ok := img.u32At(node + 1 + 4*uint64(bit))
			if !ok {
				return "", 0, readerr.InvalidLength(len(img.data), int(node)+9, "branch node")
			}
			node = uint64(child)
			continue

		case nodeTerminator:
			return b.String(), bits.consumed(), nil

		case nodeChar:
			if _, ok := img.byteAt(node + 1); !ok {
				return "", 0, readerr.InvalidLength(len(img.data), int(node)+2, "char node")
			}
			ok = emit(latin1(img.data[node+1 : node+2]))

		case nodeCString:
			// Checked before decoding so an oversized node is never copied.
			if p := img.cstring(node + 1); len(p) <= *st.budget {
				ok = emit(latin1(p))
			} else {
				ok = st.spend(len(p))
			}

		case nodeUnicodeChar:
			r, found := img.u32At(node + 1)
			if !found {
				return "", 0, readerr.InvalidLength(len(img.data), int(node)+5, "unicode char node")
			}
			ok = emit(string(toRune(r)))

		case nodeUnicodeString:
			ok = true
			for p := node + 1; ok; p += 4 {
				r, found := img.u32At(p)
				if !found || r == 0 {
					break
				}
				ok = emit(string(toRune(r)))
			}

		case nodeIndirect, nodeDoubleIndirect, nodeIndirectArgs, nodeDoubleArgs:
			ref, found := img.u32At(node + 1)
			if !found {
				return "", 0, readerr.InvalidLength(len(img.data), int(node)+5, "indirect node")
			}
			if typ == nodeDoubleIndirect || typ == nodeDoubleArgs {
				ptr := ref
				if ref, found = img.u32At(uint64(ptr)); !found {
					return "", 0, readerr.InvalidLength(len(img.data), int(ptr)+4, "double-indirect reference")
				}
			}
			s, err := img.reference(uint64(ref), st)
			if err != nil {
				return "", 0, err
			}
			ok = emit(s)

		default:
			return "", 0, readerr.InvalidConversion(fmt.Sprintf("decoding table node type 0x%02X at 0x%X", typ, node))
		}
		if !ok {
			return "", 0, st.overrun()
		}
		node = t.root
	}
}

// reference renders the object an indirect node points at: nested strings are
// decoded, functions and anything else become placeholders. Only running out
// of budget is an error.
func (img Image) reference(addr uint64, st decodeState) (string, error) {
	typ, ok := img.byteAt(addr)
	if !ok {
		return fmt.Sprintf("[ref 0x%X]", addr), nil
	}
	switch typ {
	case byte(StringCStyle), byte(StringCompressed), byte(StringUnicode):
		if st.depth >= maxIndirectDepth {
			return fmt.Sprintf("[string 0x%X]", addr), nil
		}
		s, err := img.stringAt(addr, st.nested())
		if err != nil {
			if st.exhausted() {
				return "", err
			}
			return fmt.Sprintf("[string 0x%X]", addr), nil
		}
		return s.Text, nil
	case 0xC0, 0xC1:
		return fmt.Sprintf("[call 0x%X]", addr), nil
	default:
		return fmt.Sprintf("[ref 0x%X]", addr), nil
	}
}

// cstring returns the zero-terminated bytes at addr, clipped to the image.
func (img Image) cstring(addr uint64) []byte {
	if addr >= uint64(len(img.data)) {
		return nil
	}
	p := img.data[addr:]
	for i, c := range p {
		if c == 0 {
			return p[:i]
		}
	}
	return p
}

// latin1 decodes ISO-8859-1 bytes, the encoding of Glulx character nodes.
func latin1(p []byte) string {
	s, err := charmap.ISO8859_1.NewDecoder().Bytes(p)
	if err != nil {
		return ""
	}
	return string(s)
}
