// Package report summarizes a classified game for the inspect command and the
// HTTP API. Both render the same structures as JSON.
package report

import (
	"github.com/opencontainers/go-digest"

	"github.com/samcharles93/blorbview/pkg/blorb"
	"github.com/samcharles93/blorbview/pkg/gamefile"
	"github.com/samcharles93/blorbview/pkg/glulx"
)

// Game is the top-level summary of one game file.
type Game struct {
	Name      string        `json:"name,omitempty"`
	Type      string        `json:"type"`
	Size      int           `json:"size"`
	Digest    digest.Digest `json:"digest"`
	Image     *Image        `json:"image,omitempty"`
	Container *Container    `json:"container,omitempty"`
}

// Image summarizes a Glulx image.
type Image struct {
	Version       string `json:"version"`
	RAMStart      uint32 `json:"ram_start"`
	ExtStart      uint32 `json:"ext_start"`
	EndMem        uint32 `json:"end_mem"`
	StackSize     uint32 `json:"stack_size"`
	StartFunc     uint32 `json:"start_func"`
	DecodingTable uint32 `json:"decoding_table"`
	Checksum      uint32 `json:"checksum"`
	ChecksumOK    bool   `json:"checksum_ok"`
	ChecksumError string `json:"checksum_error,omitempty"`
	Debug         *Debug `json:"debug,omitempty"`
}

// Debug mirrors glulx.DebugHeader.
type Debug struct {
	InformVersion string `json:"inform_version"`
	GlulxVersion  string `json:"glulx_version"`
	Release       uint16 `json:"release"`
	Serial        string `json:"serial"`
}

// Container summarizes a Blorb container.
type Container struct {
	FormSize     uint32     `json:"form_size"`
	Resources    []Resource `json:"resources"`
	Chunks       []Chunk    `json:"chunks,omitempty"`
	ChunkError   string     `json:"chunk_error,omitempty"`
	Frontispiece *int32     `json:"frontispiece,omitempty"`
	HasMetadata  bool       `json:"has_metadata"`
	Executable   *Image     `json:"executable,omitempty"`
	ExecError    string     `json:"executable_error,omitempty"`
}

// Resource is one resource index entry with its chunk.
type Resource struct {
	Usage       string        `json:"usage"`
	ID          int32         `json:"id"`
	Tag         string        `json:"tag"`
	Kind        string        `json:"kind"`
	Offset      uint32        `json:"offset"`
	Length      uint32        `json:"length"`
	Digest      digest.Digest `json:"digest"`
	Description string        `json:"description,omitempty"`
}

// Chunk is one top-level chunk.
type Chunk struct {
	Tag    string `json:"tag"`
	Kind   string `json:"kind"`
	Offset uint32 `json:"offset"`
	Length uint32 `json:"length"`
}

// Build summarizes g. name is informational only.
func Build(name string, g gamefile.Game) Game {
	out := Game{Name: name, Type: g.Type().String()}
	if img, ok := g.Image(); ok {
		out.Size = len(img.Bytes())
		out.Digest = digest.FromBytes(img.Bytes())
		out.Image = imageOf(img)
	}
	if c, ok := g.Container(); ok {
		out.Size = len(c.Bytes())
		out.Digest = digest.FromBytes(c.Bytes())
		out.Container = containerOf(c)
	}
	return out
}

// Resources lists the index entries of c with their payload digests.
func Resources(c *blorb.Container) []Resource {
	idx := c.Index()
	out := make([]Resource, 0, len(idx))
	for _, e := range idx {
		r := Resource{
			Usage:  e.Usage.String(),
			ID:     e.ID,
			Kind:   e.Kind.String(),
			Offset: e.Offset,
		}
		// Offsets were validated by Parse.
		if ch, err := c.ChunkAt(e.Offset); err == nil {
			r.Tag = string(ch.Tag)
			r.Length = ch.Length
			r.Digest = digest.FromBytes(ch.Data)
		}
		if d, ok := c.Description(e.Usage, e.ID); ok {
			r.Description = d
		}
		out = append(out, r)
	}
	return out
}

func containerOf(c *blorb.Container) *Container {
	out := &Container{
		FormSize:  c.Size(),
		Resources: Resources(c),
	}

	chunks, err := c.Chunks()
	for _, ch := range chunks {
		out.Chunks = append(out.Chunks, Chunk{
			Tag:    string(ch.Tag),
			Kind:   ch.Kind.String(),
			Offset: ch.Offset,
			Length: ch.Length,
		})
	}
	if err != nil {
		out.ChunkError = err.Error()
	}

	if id, ok := c.Frontispiece(); ok {
		out.Frontispiece = &id
	}
	_, out.HasMetadata = c.Metadata()

	if len(c.IDs(blorb.UsageExecutable)) > 0 {
		img, err := c.Executable(0)
		if err != nil {
			out.ExecError = err.Error()
		} else {
			out.Executable = imageOf(img)
		}
	}
	return out
}

func imageOf(img glulx.Image) *Image {
	h := img.Header()
	out := &Image{
		Version:       h.VersionString(),
		RAMStart:      h.RAMStart,
		ExtStart:      h.ExtStart,
		EndMem:        h.EndMem,
		StackSize:     h.StackSize,
		StartFunc:     h.StartFunc,
		DecodingTable: h.DecodingTable,
		Checksum:      h.Checksum,
	}
	if err := img.VerifyChecksum(); err != nil {
		out.ChecksumError = err.Error()
	} else {
		out.ChecksumOK = true
	}
	if d, ok := img.DebugHeader(); ok {
		out.Debug = &Debug{
			InformVersion: d.InformVersion,
			GlulxVersion:  glulxVersion(d.GlulxVersion),
			Release:       d.Release,
			Serial:        d.Serial,
		}
	}
	return out
}

func glulxVersion(v uint32) string {
	return glulx.Header{Version: v}.VersionString()
}
