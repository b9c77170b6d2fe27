package report

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samcharles93/blorbview/internal/testutil"
	"github.com/samcharles93/blorbview/pkg/gamefile"
)

func TestBuildImage(t *testing.T) {
	b := testutil.GlulxImage(64)
	testutil.PutInfo(b, "6.42", 7, "250301")
	testutil.FixChecksum(b)

	g, err := gamefile.Classify(b)
	require.NoError(t, err)

	r := Build("story.ulx", g)
	assert.Equal(t, "glulx", r.Type)
	assert.Equal(t, 64, r.Size)
	assert.Equal(t, digest.FromBytes(b), r.Digest)
	require.NotNil(t, r.Image)
	assert.Nil(t, r.Container)
	assert.Equal(t, "3.1.2", r.Image.Version)
	assert.True(t, r.Image.ChecksumOK)
	require.NotNil(t, r.Image.Debug)
	assert.Equal(t, uint16(7), r.Image.Debug.Release)
	assert.Equal(t, "0.5.2", r.Image.Debug.GlulxVersion)
}

func TestBuildContainer(t *testing.T) {
	pic := []byte("picture bytes")
	data := testutil.NewBlorb().
		Resource("Exec", 0, "GLUL", testutil.GlulxImage(40)).
		Resource("Pict", 2, "PNG ", pic).
		Chunk("Fspc", []byte{0, 0, 0, 2}).
		Bytes()

	g, err := gamefile.Classify(data)
	require.NoError(t, err)

	r := Build("", g)
	assert.Equal(t, "blorb", r.Type)
	require.NotNil(t, r.Container)
	c := r.Container

	require.Len(t, c.Resources, 2)
	assert.Equal(t, "picture", c.Resources[1].Usage)
	assert.Equal(t, "PNG ", c.Resources[1].Tag)
	assert.Equal(t, uint32(len(pic)), c.Resources[1].Length)
	assert.Equal(t, digest.FromBytes(pic), c.Resources[1].Digest)

	require.NotNil(t, c.Frontispiece)
	assert.Equal(t, int32(2), *c.Frontispiece)
	assert.False(t, c.HasMetadata)
	assert.Len(t, c.Chunks, 4)
	require.NotNil(t, c.Executable)
	assert.True(t, c.Executable.ChecksumOK)

	raw, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"type":"blorb"`)
	assert.NotContains(t, string(raw), `"name"`)
}

func TestBuildContainerNonGlulxExecutable(t *testing.T) {
	data := testutil.NewBlorb().Resource("Exec", 0, "ZCOD", []byte{5, 0}).Bytes()
	g, err := gamefile.Classify(data)
	require.NoError(t, err)

	r := Build("", g)
	assert.Nil(t, r.Container.Executable)
	assert.Contains(t, r.Container.ExecError, "unsupported")
}

func TestPayloadOf(t *testing.T) {
	data := testutil.NewBlorb().
		Resource("Snd ", 1, "FORM", []byte("AIFFCOMM")).
		Resource("Snd ", 2, "OGGV", []byte("OggS")).
		Resource("Data", 3, "WEBP", []byte{9}).
		Bytes()
	g, err := gamefile.Classify(data)
	require.NoError(t, err)
	c, _ := g.Container()

	aiff, err := c.Resource("Snd ", 1)
	require.NoError(t, err)
	p := PayloadOf(aiff)
	assert.Equal(t, "aiff", p.Ext)
	assert.Equal(t, "audio/aiff", p.MediaType)
	assert.Equal(t, []byte("FORM\x00\x00\x00\x08AIFFCOMM"), p.Data)

	ogg, err := c.Resource("Snd ", 2)
	require.NoError(t, err)
	assert.Equal(t, Payload{Data: []byte("OggS"), MediaType: "audio/ogg", Ext: "ogg"}, PayloadOf(ogg))

	unknown, err := c.Resource("Data", 3)
	require.NoError(t, err)
	assert.Equal(t, "bin", PayloadOf(unknown).Ext)
}
