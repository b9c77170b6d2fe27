// Package gamefile classifies a game file as a bare Glulx image or a Blorb
// container and hands out the primary executable either way.
package gamefile

import (
	"errors"

	"github.com/samcharles93/blorbview/pkg/blorb"
	"github.com/samcharles93/blorbview/pkg/glulx"
	"github.com/samcharles93/blorbview/pkg/readerr"
)

// Type says which format a Game holds.
type Type uint8

const (
	TypeImage Type = iota + 1
	TypeContainer
)

func (t Type) String() string {
	switch t {
	case TypeImage:
		return "glulx"
	case TypeContainer:
		return "blorb"
	default:
		return "unknown"
	}
}

// Game is exactly one of a Glulx image or a Blorb container.
type Game struct {
	typ       Type
	image     glulx.Image
	container *blorb.Container
}

// Classify tries data as a Glulx image first, then as a Blorb container.
// When neither parse succeeds the result is readerr.ErrUnknownFileType, with both
// parse failures kept as its cause.
func Classify(data []byte) (Game, error) {
	img, imgErr := glulx.Parse(data)
	if imgErr == nil {
		return Game{typ: TypeImage, image: img}, nil
	}
	c, blorbErr := blorb.Parse(data)
	if blorbErr == nil {
		return Game{typ: TypeContainer, container: c}, nil
	}
	return Game{}, readerr.UnknownFileType(errors.Join(imgErr, blorbErr))
}

// Type returns the held format.
func (g Game) Type() Type {
	return g.typ
}

// Image returns the bare image when the game is TypeImage.
func (g Game) Image() (glulx.Image, bool) {
	return g.image, g.typ == TypeImage
}

// Container returns the container when the game is TypeContainer.
func (g Game) Container() (*blorb.Container, bool) {
	return g.container, g.typ == TypeContainer
}

// PrimaryImage returns the bare image, or the container's first executable.
// Container errors (no executable, non-Glulx executable) are returned as is.
func (g Game) PrimaryImage() (glulx.Image, error) {
	switch g.typ {
	case TypeImage:
		return g.image, nil
	case TypeContainer:
		return g.container.Executable(0)
	default:
		return glulx.Image{}, readerr.UnknownFileType(nil)
	}
}
