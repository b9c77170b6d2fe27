package gamefile

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samcharles93/blorbview/internal/testutil"
	"github.com/samcharles93/blorbview/pkg/glulx"
	"github.com/samcharles93/blorbview/pkg/readerr"
)

func TestClassifyImage(t *testing.T) {
	g, err := Classify(testutil.GlulxImage(64))
	require.NoError(t, err)
	assert.Equal(t, TypeImage, g.Type())
	assert.Equal(t, "glulx", g.Type().String())

	_, ok := g.Image()
	assert.True(t, ok)
	_, ok = g.Container()
	assert.False(t, ok)

	img, err := g.PrimaryImage()
	require.NoError(t, err)
	assert.Equal(t, uint32(64), img.Header().ExtStart)
}

func TestClassifyContainer(t *testing.T) {
	data := testutil.NewBlorb().
		Resource("Pict", 1, "PNG ", []byte{1, 2, 3, 4}).
		Resource("Exec", 0, "GLUL", testutil.GlulxImage(48)).
		Bytes()

	g, err := Classify(data)
	require.NoError(t, err)
	assert.Equal(t, TypeContainer, g.Type())

	c, ok := g.Container()
	require.True(t, ok)
	assert.Equal(t, []int32{1}, c.IDs("Pict"))

	img, err := g.PrimaryImage()
	require.NoError(t, err)
	hdr := img.Header()
	assert.Equal(t, glulx.Magic, string(hdr.Magic[:]))
	assert.Equal(t, uint32(48), hdr.ExtStart)
}

func TestClassifyContainerWithoutExecutable(t *testing.T) {
	data := testutil.NewBlorb().Resource("Snd ", 2, "OGGV", []byte("OggS")).Bytes()

	g, err := Classify(data)
	require.NoError(t, err)

	_, err = g.PrimaryImage()
	require.ErrorIs(t, err, readerr.ErrUnknownIdentifier)
}

func TestClassifyUnknown(t *testing.T) {
	tests := map[string][]byte{
		"empty":    nil,
		"text":     []byte("This is not a game file at all."),
		"riff":     []byte("RIFF\x00\x00\x00\x04WAVE"),
		"ifrs-ish": []byte("FORM\x00\x00\x00\x04IFRS"),
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Classify(data)
			require.ErrorIs(t, err, readerr.ErrUnknownFileType)
			assert.Equal(t, readerr.KindUnknownFileType, readerr.KindOf(err))
		})
	}
}

func TestClassifyKeepsBothCauses(t *testing.T) {
	_, err := Classify([]byte("XXXXXXXXXXXXXXXX"))
	require.Error(t, err)
	// Both readers reject the magic.
	require.ErrorIs(t, err, readerr.ErrUnexpectedIdentifier)
	assert.Contains(t, err.Error(), `"Glul"`)
	assert.Contains(t, err.Error(), `"FORM"`)
}

func TestZeroGame(t *testing.T) {
	var g Game
	assert.Equal(t, "unknown", g.Type().String())
	_, err := g.PrimaryImage()
	require.ErrorIs(t, err, readerr.ErrUnknownFileType)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "story.gblorb")
	data := testutil.NewBlorb().Resource("Exec", 0, "GLUL", testutil.GlulxImage(64)).Bytes()
	require.NoError(t, os.WriteFile(path, data, 0o644))

	f, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, path, f.Path)
	assert.Equal(t, data, f.Data)
	assert.Equal(t, TypeContainer, f.Game.Type())

	_, err = f.Game.PrimaryImage()
	require.NoError(t, err)

	require.NoError(t, f.Close())
	assert.Nil(t, f.Data)
	require.NoError(t, f.Close())
}

func TestOpenRejectsUnknown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello there, not a game"), 0o644))

	_, err := Open(path)
	require.ErrorIs(t, err, readerr.ErrUnknownFileType)
}

func TestOpenEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.ulx")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := Open(path)
	require.ErrorIs(t, err, readerr.ErrUnknownFileType)
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.ulx"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpenReaderAt(t *testing.T) {
	data := testutil.GlulxImage(96)
	f, err := OpenReaderAt(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.Equal(t, TypeImage, f.Game.Type())
	assert.Empty(t, f.Path)
	require.NoError(t, f.Close())

	_, err = OpenReaderAt(bytes.NewReader(data), maxFileSize+1)
	require.ErrorIs(t, err, ErrTooLarge)
}

func TestOpenBytes(t *testing.T) {
	data := testutil.GlulxImage(64)
	f, err := OpenBytes(data)
	require.NoError(t, err)
	assert.Same(t, &data[0], &f.Data[0])
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.ulx", "A.GBLORB", "c.blb", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.ulx"), 0o755))

	got, err := Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "A.GBLORB"),
		filepath.Join(dir, "b.ulx"),
		filepath.Join(dir, "c.blb"),
	}, got)

	_, err = Discover(filepath.Join(dir, "notes.txt"))
	require.Error(t, err)
	_, err = Discover(" ")
	require.Error(t, err)
}
