package glulx

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/samcharles93/blorbview/pkg/readerr"
)

// StringType is the leading byte of a Glulx string object.
type StringType uint8

const (
	StringCStyle     StringType = 0xE0
	StringCompressed StringType = 0xE1
	StringUnicode    StringType = 0xE2
)

func (t StringType) String() string {
	switch t {
	case StringCStyle:
		return "c-style"
	case StringCompressed:
		return "compressed"
	case StringUnicode:
		return "unicode"
	default:
		return fmt.Sprintf("type(0x%02X)", uint8(t))
	}
}

// ParseStringType validates a string object type byte.
func ParseStringType(b byte) (StringType, error) {
	switch t := StringType(b); t {
	case StringCStyle, StringCompressed, StringUnicode:
		return t, nil
	default:
		return 0, readerr.UnknownIdentifier(int64(b), "string type")
	}
}

// ParsedString is one decoded string object.
type ParsedString struct {
	Type StringType
	// Address is the position of the type byte within the image.
	Address uint32
	// Length is the encoded size, type byte included.
	Length uint32
	Text   string
}

// stringDecoder decodes a string body (the bytes after the type byte) and
// reports how many of those bytes it consumed.
type stringDecoder func(img Image, body []byte, st decodeState) (string, int, error)

// decodeState is shared by a string and every string it references. The budget
// counts decoding table steps plus output bytes and scales with the image size.
type decodeState struct {
	depth  int
	limit  int
	budget *int
}

func newDecodeState(img Image) decodeState {
	limit := 16*len(img.data) + 4096
	return decodeState{limit: limit, budget: &limit}
}

func (st decodeState) nested() decodeState {
	st.depth++
	return st
}

// spend charges n units and reports whether the budget still holds.
func (st decodeState) spend(n int) bool {
	*st.budget -= n
	return *st.budget >= 0
}

func (st decodeState) exhausted() bool {
	return *st.budget < 0
}

func (st decodeState) overrun() error {
	return readerr.InvalidLength(st.limit-*st.budget, st.limit, "decoded string exceeds work budget")
}

func decoderFor(t StringType) (stringDecoder, error) {
	switch t {
	case StringCStyle:
		return decodeCStyle, nil
	case StringCompressed:
		return decodeCompressed, nil
	case StringUnicode:
		return decodeUnicode, nil
	default:
		return nil, readerr.UnknownIdentifier(int64(t), "string type")
	}
}

// DecodeString decodes a string body of type t. Compressed bodies are decoded
// with this image's decoding table.
func (img Image) DecodeString(t StringType, body []byte) (string, error) {
	dec, err := decoderFor(t)
	if err != nil {
		return "", err
	}
	text, _, err := dec(img, body, newDecodeState(img))
	return text, err
}

// StringAt decodes the string object whose type byte is at addr.
func (img Image) StringAt(addr uint32) (ParsedString, error) {
	return img.stringAt(uint64(addr), newDecodeState(img))
}

func (img Image) stringAt(addr uint64, st decodeState) (ParsedString, error) {
	b, ok := img.byteAt(addr)
	if !ok {
		return ParsedString{}, readerr.InvalidLength(len(img.data), int(addr)+1, "string address")
	}
	t, err := ParseStringType(b)
	if err != nil {
		return ParsedString{}, err
	}
	dec, err := decoderFor(t)
	if err != nil {
		return ParsedString{}, err
	}
	text, n, err := dec(img, img.data[addr+1:], st)
	if err != nil {
		return ParsedString{}, err
	}
	return ParsedString{
		Type:    t,
		Address: uint32(addr),
		Length:  uint32(n) + 1,
		Text:    text,
	}, nil
}

// Strings decodes the string objects that follow the string decoding table, in
// memory order. The walk ends at the first byte that is not a string type, at
// RAM start, at the end of the image, or at the first string that fails to decode.
// An image without a decoding table yields no strings.
func (img Image) Strings() []ParsedString {
	table := uint64(img.header.DecodingTable)
	if table == 0 {
		return nil
	}
	tableLen, ok := img.u32At(table)
	if !ok {
		return nil
	}

	pos := table + uint64(tableLen)
	limit := uint64(len(img.data))
	if ram := uint64(img.header.RAMStart); ram > pos && ram < limit {
		limit = ram
	}

	var out []ParsedString
	for pos < limit {
		s, err := img.stringAt(pos, newDecodeState(img))
		if err != nil {
			break
		}
		out = append(out, s)
		pos += uint64(s.Length)
	}
	return out
}

// decodeCStyle reads up to the first zero byte. Bytes that are not valid UTF-8
// decode to the empty string; a missing terminator takes the rest of the body.
func decodeCStyle(_ Image, body []byte, st decodeState) (string, int, error) {
	end := bytes.IndexByte(body, 0)
	n := end + 1
	if end < 0 {
		end, n = len(body), len(body)
	}
	s := body[:end]
	if !st.spend(len(s)) {
		return "", 0, st.overrun()
	}
	if !utf8.Valid(s) {
		return "", n, nil
	}
	return string(s), n, nil
}

// decodeUnicode reads three padding bytes, then big-endian code points up to a zero word.
func decodeUnicode(_ Image, body []byte, st decodeState) (string, int, error) {
	if len(body) < 3 {
		return "", 0, readerr.InvalidLength(len(body), 3, "unicode string padding")
	}
	var b strings.Builder
	off := 3
	for off+4 <= len(body) {
		r := binary.BigEndian.Uint32(body[off:])
		off += 4
		if r == 0 {
			return b.String(), off, nil
		}
		if !st.spend(utf8.UTFMax) {
			return "", 0, st.overrun()
		}
		b.WriteRune(toRune(r))
	}
	return b.String(), len(body), nil
}

func toRune(v uint32) rune {
	if v > utf8.MaxRune {
		return utf8.RuneError
	}
	return rune(v)
}
