// Package render drives the post-processing pipeline of the viewer: a main
// render pass, a selection outline and FXAA, submitted to an external
// renderer and composer every frame.
package render

//go:generate mockgen -destination=mock/mock_renderer.go -package=mockrender -source=renderer.go

import (
	"context"

	"github.com/go-gl/mathgl/mgl32"
)

// Renderer is the drawing backend
type Renderer interface {
	SetSize(width, height int)
	SetPixelRatio(ratio float32)
	Clear()

	// SupportedExtensions lists the runtime extensions the backend exposes
	SupportedExtensions(ctx context.Context) ([]string, error)

	// Parameter reads one runtime parameter by name
	Parameter(ctx context.Context, name string) (any, error)
}

// Composer runs the pass chain for a frame
type Composer interface {
	AddPass(pass Pass)
	SetSize(width, height int)
	Render(ctx context.Context, frame *Frame) error
}

// Frame is everything the composer needs to draw one image
type Frame struct {
	Number     uint64
	Scene      string
	View       mgl32.Mat4
	Projection mgl32.Mat4
	Width      int
	Height     int

	// Passes are copies taken when the frame was built
	Passes []Pass
}
