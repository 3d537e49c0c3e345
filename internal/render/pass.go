package render

import (
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

// Pass names
const (
	PassRender  = "render"
	PassOutline = "outline"
	PassFXAA    = "fxaa"
)

// Pass is one step of the composer chain
type Pass interface {
	Name() string
	Enabled() bool
}

// RenderPass draws the scene through the camera
type RenderPass struct {
	Scene string
}

func (p *RenderPass) Name() string  { return PassRender }
func (p *RenderPass) Enabled() bool { return true }

// OutlinePass draws edges around the selected objects
type OutlinePass struct {
	Width  int
	Height int

	EdgeStrength      float32
	EdgeGlow          float32
	EdgeThickness     float32
	PulsePeriod       float32
	UsePatternTexture bool
	PatternTexture    string
	VisibleEdgeColor  string
	HiddenEdgeColor   string

	// Selected holds node IDs
	Selected []string
}

// NewOutlinePass creates an outline pass with the viewer's edge style
func NewOutlinePass(width, height int) *OutlinePass {
	return &OutlinePass{
		Width:            width,
		Height:           height,
		EdgeStrength:     3,
		EdgeGlow:         0,
		EdgeThickness:    1,
		PulsePeriod:      0,
		VisibleEdgeColor: "#ffffff",
		HiddenEdgeColor:  "#190a05",
	}
}

func (p *OutlinePass) Name() string { return PassOutline }

// Enabled reports whether anything is selected
func (p *OutlinePass) Enabled() bool { return len(p.Selected) > 0 }

func (p *OutlinePass) clone() *OutlinePass {
	c := *p
	c.Selected = slices.Clone(p.Selected)
	return &c
}

// FXAAPass is the anti-aliasing pass. Resolution is the texel size,
// 1/width by 1/height.
type FXAAPass struct {
	Resolution mgl32.Vec2
}

// NewFXAAPass creates an FXAA pass for a width x height viewport
func NewFXAAPass(width, height int) *FXAAPass {
	p := &FXAAPass{}
	p.SetSize(width, height)
	return p
}

// SetSize updates the resolution uniform
func (p *FXAAPass) SetSize(width, height int) {
	p.Resolution = mgl32.Vec2{texel(width), texel(height)}
}

func texel(n int) float32 {
	if n <= 0 {
		return 1
	}
	return 1 / float32(n)
}

func (p *FXAAPass) Name() string  { return PassFXAA }
func (p *FXAAPass) Enabled() bool { return true }
