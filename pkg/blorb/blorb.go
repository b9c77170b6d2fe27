// Package blorb reads Blorb resource containers.
//
// A Blorb file is an IFF FORM of type IFRS. Its first chunk is a resource index
// (RIdx) mapping (usage, number) pairs to the absolute offsets of picture, sound,
// executable and data chunks. Everything else is located through that index or by
// walking the top-level chunk list.
//
// A Container is a read-only view over the caller's buffer. Chunk payloads are
// sub-slices of that buffer and are only located when asked for; the buffer must
// outlive every Container and Chunk derived from it.
package blorb

import (
	"encoding/binary"
	"strings"
)

// Layout constants fixed by IFF and the Blorb format.
const (
	// formHeaderSize covers "FORM", the form length and the "IFRS" type.
	formHeaderSize = 12

	// chunkHeaderSize covers the tag and the big-endian payload length.
	chunkHeaderSize = 8

	// indexEntrySize is usage + number + offset in the RIdx payload.
	indexEntrySize = 12
)

// Usage is the category of a resource index entry.
type Usage Tag

const (
	UsagePicture    Usage = "Pict"
	UsageSound      Usage = "Snd "
	UsageExecutable Usage = "Exec"
	UsageData       Usage = "Data"
)

// Usages lists the recognized usages in index-listing order.
var Usages = []Usage{UsagePicture, UsageSound, UsageExecutable, UsageData}

func (u Usage) String() string {
	switch u {
	case UsagePicture:
		return "picture"
	case UsageSound:
		return "sound"
	case UsageExecutable:
		return "executable"
	case UsageData:
		return "data"
	default:
		return string(u)
	}
}

// ParseUsage maps a usage name ("picture", "Pict", "snd", ...) to a Usage.
// Matching ignores case and surrounding spaces.
func ParseUsage(name string) (Usage, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "picture", "pictures", "pict":
		return UsagePicture, true
	case "sound", "sounds", "snd":
		return UsageSound, true
	case "executable", "executables", "exec":
		return UsageExecutable, true
	case "data":
		return UsageData, true
	default:
		return "", false
	}
}

// Accepts reports whether a chunk of kind k may be filed under u.
// Unknown chunk kinds are accepted under any usage.
func (u Usage) Accepts(k Kind) bool {
	if k == KindUnknown {
		return true
	}
	switch u {
	case UsagePicture:
		return k == KindPicture
	case UsageSound:
		return k.Bucket() == KindSound
	case UsageExecutable:
		return k == KindExecutable
	case UsageData:
		return k == KindText || k == KindBinary
	default:
		return false
	}
}

func be32(b []byte) uint32 {
	return binary.BigEndian.Uint32(b)
}
