package report

import (
	"github.com/samcharles93/blorbview/pkg/blorb"
)

// Payload is how a resource chunk is exported.
type Payload struct {
	Data      []byte
	MediaType string
	// Ext is a file extension without the dot.
	Ext string
}

// PayloadOf returns the exportable bytes of ch. FORM chunks are complete IFF
// files, so they keep their header; other chunks export just the payload.
func PayloadOf(ch blorb.Chunk) Payload {
	switch ch.Tag {
	case blorb.TagPNG:
		return Payload{ch.Data, "image/png", "png"}
	case blorb.TagJPEG:
		return Payload{ch.Data, "image/jpeg", "jpg"}
	case blorb.TagOGGV:
		return Payload{ch.Data, "audio/ogg", "ogg"}
	case blorb.TagMOD:
		return Payload{ch.Data, "audio/mod", "mod"}
	case blorb.TagSONG:
		return Payload{ch.Data, "application/octet-stream", "song"}
	case blorb.TagForm:
		if ch.FormType() == blorb.TagAIFF {
			return Payload{ch.Raw(), "audio/aiff", "aiff"}
		}
		return Payload{ch.Raw(), "application/octet-stream", "iff"}
	case blorb.TagGLUL:
		return Payload{ch.Data, "application/x-glulx", "ulx"}
	case blorb.TagZCOD:
		return Payload{ch.Data, "application/x-zmachine", "zcode"}
	case blorb.TagTEXT:
		return Payload{ch.Data, "text/plain; charset=UTF-8", "txt"}
	default:
		return Payload{ch.Data, "application/octet-stream", "bin"}
	}
}
