package blorb

import (
	"fmt"

	"github.com/samcharles93/blorbview/pkg/readerr"
)

type resourceKey struct {
	usage Usage
	id    int32
}

func (c *Container) parseIndex(ch Chunk) ([]IndexEntry, error) {
	p := ch.Data
	if len(p) < 4 {
		return nil, readerr.InvalidLength(len(p), 4, "resource index count")
	}
	count := be32(p[0:4])
	want := 4 + uint64(count)*indexEntrySize
	if want > uint64(len(p)) {
		return nil, readerr.InvalidLength(len(p), int(want), "resource index entries")
	}

	entries := make([]IndexEntry, 0, count)
	seen := make(map[resourceKey]struct{}, count)
	for i := range uint64(count) {
		b := p[4+i*indexEntrySize : 4+(i+1)*indexEntrySize]
		usage := Usage(b[0:4])
		switch usage {
		case UsagePicture, UsageSound, UsageExecutable, UsageData:
		default:
			return nil, readerr.UnknownIdentifier(int64(i), fmt.Sprintf("resource index entry has usage %q", string(b[0:4])))
		}
		id := int32(be32(b[4:8]))
		off := be32(b[8:12])

		key := resourceKey{usage: usage, id: id}
		if _, dup := seen[key]; dup {
			return nil, readerr.DuplicateIdentifier(int64(id), fmt.Sprintf("%s resource listed twice", usage))
		}
		seen[key] = struct{}{}

		// Resources live after the form header; offset 0 would name the FORM itself.
		if off < formHeaderSize {
			return nil, readerr.InvalidLength(int(off), formHeaderSize, fmt.Sprintf("%s resource %d offset", usage, id))
		}
		res, err := c.ChunkAt(off)
		if err != nil {
			return nil, err
		}
		if !usage.Accepts(res.Kind) {
			return nil, readerr.UnexpectedIdentifier(joinTags(expectedTags(usage)),
				fmt.Sprintf("%s resource %d at %d is a %q chunk", usage, id, off, res.Tag))
		}

		entries = append(entries, IndexEntry{
			Usage:  usage,
			ID:     id,
			Offset: off,
			Kind:   res.Kind,
		})
	}
	return entries, nil
}

func expectedTags(u Usage) []Tag {
	switch u {
	case UsagePicture:
		return TagsOf(KindPicture)
	case UsageSound:
		return TagsOf(KindSound)
	case UsageExecutable:
		return TagsOf(KindExecutable)
	case UsageData:
		return append(TagsOf(KindText), TagsOf(KindBinary)...)
	default:
		return nil
	}
}
