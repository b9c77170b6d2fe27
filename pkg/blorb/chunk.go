package blorb

import (
	"slices"
	"strings"
)

// Tag is a four-character IFF chunk identifier.
type Tag string

// Chunk tags recognized by the registry.
const (
	TagForm Tag = "FORM"
	TagIFRS Tag = "IFRS"
	TagRIdx Tag = "RIdx"
	TagIFhd Tag = "IFhd"
	TagPNG  Tag = "PNG "
	TagJPEG Tag = "JPEG"
	TagRect Tag = "Rect"
	TagOGGV Tag = "OGGV"
	TagMOD  Tag = "MOD "
	TagSONG Tag = "SONG"
	TagAIFF Tag = "AIFF"
	TagGLUL Tag = "GLUL"
	TagZCOD Tag = "ZCOD"
	TagTEXT Tag = "TEXT"
	TagBINA Tag = "BINA"
	TagAUTH Tag = "AUTH"
	TagCopy Tag = "(c) "
	TagANNO Tag = "ANNO"
	TagSNam Tag = "SNam"
	TagFspc Tag = "Fspc"
	TagRDes Tag = "RDes"
	TagIFmd Tag = "IFmd"
	TagPlte Tag = "Plte"
	TagReso Tag = "Reso"
	TagLoop Tag = "Loop"
	TagRelN Tag = "RelN"
	TagAPal Tag = "APal"
	TagTAD2 Tag = "TAD2"
	TagTAD3 Tag = "TAD3"
	TagHUGO Tag = "HUGO"
	TagALAN Tag = "ALAN"
	TagADRI Tag = "ADRI"
	TagLEVE Tag = "LEVE"
	TagAGT  Tag = "AGT "
	TagMAGS Tag = "MAGS"
	TagADVS Tag = "ADVS"
	TagEXEC Tag = "EXEC"
)

// Kind is the semantic class of a chunk.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindPicture
	KindSound // sampled audio: AIFF (as a FORM chunk) or Ogg Vorbis
	KindSoundMOD
	KindSoundSong
	KindExecutable
	KindText
	KindBinary
	KindIndex
	KindHeader
	KindMetadata
)

func (k Kind) String() string {
	switch k {
	case KindPicture:
		return "picture"
	case KindSound:
		return "sound"
	case KindSoundMOD:
		return "sound-mod"
	case KindSoundSong:
		return "sound-song"
	case KindExecutable:
		return "executable"
	case KindText:
		return "text"
	case KindBinary:
		return "binary"
	case KindIndex:
		return "index"
	case KindHeader:
		return "header"
	case KindMetadata:
		return "metadata"
	default:
		return "unknown"
	}
}

// Bucket folds the sound variants into KindSound; other kinds map to themselves.
func (k Kind) Bucket() Kind {
	switch k {
	case KindSoundMOD, KindSoundSong:
		return KindSound
	default:
		return k
	}
}

var registry = map[Tag]Kind{
	TagPNG:  KindPicture,
	TagJPEG: KindPicture,
	TagRect: KindPicture,

	TagForm: KindSound,
	TagOGGV: KindSound,
	TagMOD:  KindSoundMOD,
	TagSONG: KindSoundSong,

	TagGLUL: KindExecutable,
	TagZCOD: KindExecutable,
	TagTAD2: KindExecutable,
	TagTAD3: KindExecutable,
	TagHUGO: KindExecutable,
	TagALAN: KindExecutable,
	TagADRI: KindExecutable,
	TagLEVE: KindExecutable,
	TagAGT:  KindExecutable,
	TagMAGS: KindExecutable,
	TagADVS: KindExecutable,
	TagEXEC: KindExecutable,

	TagTEXT: KindText,
	TagAUTH: KindText,
	TagCopy: KindText,
	TagANNO: KindText,
	TagSNam: KindText,
	TagBINA: KindBinary,

	TagRIdx: KindIndex,
	TagIFhd: KindHeader,

	TagFspc: KindMetadata,
	TagRDes: KindMetadata,
	TagIFmd: KindMetadata,
	TagPlte: KindMetadata,
	TagReso: KindMetadata,
	TagLoop: KindMetadata,
	TagRelN: KindMetadata,
	TagAPal: KindMetadata,
}

// KindOf maps a tag to its kind. Unregistered tags are KindUnknown.
func KindOf(t Tag) Kind {
	return registry[t]
}

// TagsOf returns the registered tags whose kind, or kind bucket, is k, sorted.
// TagsOf(KindSound) therefore includes the MOD and SONG tags.
func TagsOf(k Kind) []Tag {
	var tags []Tag
	for t, tk := range registry {
		if tk == k || tk.Bucket() == k {
			tags = append(tags, t)
		}
	}
	slices.Sort(tags)
	return tags
}

func joinTags(tags []Tag) string {
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = string(t)
	}
	return strings.Join(parts, "|")
}

func printable(b []byte) bool {
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			return false
		}
	}
	return true
}

// Chunk is a view of one chunk inside a container buffer.
type Chunk struct {
	Tag  Tag
	Kind Kind

	// Offset is the absolute position of the chunk header.
	Offset uint32
	// Length is the declared payload length, excluding padding.
	Length uint32

	// Data is the payload. It aliases the container buffer.
	Data []byte

	raw []byte
}

// Raw returns the chunk header and payload. For a FORM chunk this is a
// standalone IFF file (an AIFF sound, for example).
func (c Chunk) Raw() []byte {
	return c.raw
}

// FormType returns the form type of a FORM chunk ("AIFF" for sounds), or "".
func (c Chunk) FormType() Tag {
	if c.Tag != TagForm || len(c.Data) < 4 {
		return ""
	}
	return Tag(c.Data[:4])
}

// next returns the offset of the following chunk. Odd payloads carry one pad byte.
func (c Chunk) next() uint64 {
	n := uint64(c.Offset) + chunkHeaderSize + uint64(c.Length)
	return n + uint64(c.Length&1)
}
