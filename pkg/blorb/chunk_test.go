package blorb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		tag  Tag
		want Kind
	}{
		{TagPNG, KindPicture},
		{TagJPEG, KindPicture},
		{TagOGGV, KindSound},
		{TagForm, KindSound},
		{TagMOD, KindSoundMOD},
		{TagSONG, KindSoundSong},
		{TagGLUL, KindExecutable},
		{TagZCOD, KindExecutable},
		{TagRIdx, KindIndex},
		{TagIFhd, KindHeader},
		{TagTEXT, KindText},
		{TagBINA, KindBinary},
		{"XYZW", KindUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, KindOf(tt.tag), "tag %q", tt.tag)
	}
}

func TestTagsOfSoundBucket(t *testing.T) {
	assert.Equal(t, []Tag{TagForm, TagMOD, TagOGGV, TagSONG}, TagsOf(KindSound))
	assert.Equal(t, []Tag{TagMOD}, TagsOf(KindSoundMOD))
	assert.Equal(t, []Tag{TagJPEG, TagPNG, TagRect}, TagsOf(KindPicture))
	assert.Empty(t, TagsOf(KindUnknown))
}

func TestTagsOfRoundTrip(t *testing.T) {
	for _, k := range []Kind{KindPicture, KindSound, KindExecutable, KindText, KindMetadata} {
		for _, tag := range TagsOf(k) {
			assert.Equal(t, k, KindOf(tag).Bucket(), "tag %q", tag)
		}
	}
}

func TestUsageAccepts(t *testing.T) {
	assert.True(t, UsagePicture.Accepts(KindPicture))
	assert.False(t, UsagePicture.Accepts(KindSound))
	assert.True(t, UsageSound.Accepts(KindSoundSong))
	assert.True(t, UsageData.Accepts(KindBinary))
	assert.True(t, UsageExecutable.Accepts(KindUnknown))
	assert.False(t, UsageExecutable.Accepts(KindText))
}

func TestParseUsage(t *testing.T) {
	for in, want := range map[string]Usage{
		"picture": UsagePicture,
		"Pict":    UsagePicture,
		" snd ":   UsageSound,
		"EXEC":    UsageExecutable,
		"data":    UsageData,
	} {
		got, ok := ParseUsage(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := ParseUsage("video")
	assert.False(t, ok)
}
