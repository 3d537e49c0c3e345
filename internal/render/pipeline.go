package render

import (
	"context"
	"slices"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"

	"github.com/KirkDiggler/sceneview/internal/errors"
	svlog "github.com/KirkDiggler/sceneview/internal/log"
	"github.com/KirkDiggler/sceneview/internal/metrics"
	"github.com/KirkDiggler/sceneview/internal/rendering"
)

// PipelineConfig configures a Pipeline
type PipelineConfig struct {
	Renderer Renderer
	Composer Composer

	Scene      string
	Width      int
	Height     int
	PixelRatio float32

	// Parameter tunes the outline; nil keeps the pass defaults
	Parameter *rendering.Parameter

	Logger *zerolog.Logger
}

// Pipeline owns the render -> outline -> fxaa chain
type Pipeline struct {
	mu sync.Mutex

	renderer Renderer
	composer Composer

	main    *RenderPass
	outline *OutlinePass
	fxaa    *FXAAPass

	width  int
	height int
	frames uint64

	logger zerolog.Logger
}

// NewPipeline sizes the renderer and registers the three passes with the composer
func NewPipeline(cfg *PipelineConfig) (*Pipeline, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("pipeline config is required")
	}
	if cfg.Renderer == nil {
		return nil, errors.InvalidArgument("renderer is required")
	}
	if cfg.Composer == nil {
		return nil, errors.InvalidArgument("composer is required")
	}
	if err := validateSize(cfg.Width, cfg.Height); err != nil {
		return nil, err
	}

	p := &Pipeline{
		renderer: cfg.Renderer,
		composer: cfg.Composer,
		main:     &RenderPass{Scene: cfg.Scene},
		outline:  NewOutlinePass(cfg.Width, cfg.Height),
		fxaa:     NewFXAAPass(cfg.Width, cfg.Height),
		width:    cfg.Width,
		height:   cfg.Height,
	}
	if cfg.Logger != nil {
		p.logger = *cfg.Logger
	} else {
		p.logger = svlog.WithComponent("render")
	}

	ratio := cfg.PixelRatio
	if ratio <= 0 {
		ratio = 1
	}
	p.renderer.SetPixelRatio(ratio)
	p.renderer.SetSize(cfg.Width, cfg.Height)

	p.composer.AddPass(p.main)
	p.composer.AddPass(p.outline)
	p.composer.AddPass(p.fxaa)

	if cfg.Parameter != nil {
		if err := p.ApplyParameter(cfg.Parameter); err != nil {
			return nil, err
		}
	}

	return p, nil
}

func validateSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return errors.Validationf("viewport must be positive, got %dx%d", width, height).
			WithMeta("width", width).
			WithMeta("height", height)
	}
	return nil
}

// ApplyParameter restyles the outline from a scene's rendering parameters.
// Only the outline options the scene changed from their defaults override
// the pass's own style.
func (p *Pipeline) ApplyParameter(param *rendering.Parameter) error {
	if param == nil {
		return errors.InvalidArgument("parameter is nil")
	}
	if err := param.Validate(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	next := NewOutlinePass(p.width, p.height)
	next.Selected = p.outline.Selected

	for _, key := range rendering.Diff(rendering.Defaults(), param) {
		switch key {
		case "effectOutlineEdgeStrength":
			next.EdgeStrength = float32(param.EffectOutlineEdgeStrength)
		case "effectOutlineEdgeGlow":
			next.EdgeGlow = float32(param.EffectOutlineEdgeGlow)
		case "effectOutlineEdgeThickness":
			next.EdgeThickness = float32(param.EffectOutlineEdgeThickness)
		case "effectOutlinePulsePeriod":
			next.PulsePeriod = float32(param.EffectOutlinePulsePeriod)
		case "effectOutlinePatternTextureEnable":
			next.UsePatternTexture = param.EffectOutlinePatternTextureEnable
		case "effectOutlinePatternTextureSelect":
			next.PatternTexture = param.EffectOutlinePatternTextureSelect
		case "effectOutlineVisibleEdgeColor":
			next.VisibleEdgeColor = param.EffectOutlineVisibleEdgeColor
		case "effectOutlineHiddenEdgeColor":
			next.HiddenEdgeColor = param.EffectOutlineHiddenEdgeColor
		}
	}

	// the composer holds the pass pointer, so update in place
	*p.outline = *next
	return nil
}

// SetScene switches the scene the render pass draws
func (p *Pipeline) SetScene(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.main.Scene == id {
		return
	}
	p.logger.Debug().
		Str("event", "render.scene_switched").
		Str("from", p.main.Scene).
		Str("to", id).
		Msg("render pass scene switched")
	p.main.Scene = id
	p.outline.Selected = nil
}

func (p *Pipeline) Scene() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.main.Scene
}

// Resize resizes the renderer, the composer, the outline and the FXAA resolution
func (p *Pipeline) Resize(width, height int) error {
	if err := validateSize(width, height); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.width, p.height = width, height
	p.renderer.SetSize(width, height)
	p.composer.SetSize(width, height)
	p.outline.Width, p.outline.Height = width, height
	p.fxaa.SetSize(width, height)
	return nil
}

// Size returns the viewport size in pixels
func (p *Pipeline) Size() (width, height int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.width, p.height
}

// SetSelection replaces the outlined node IDs. It returns the previous
// selection and whether anything changed.
func (p *Pipeline) SetSelection(ids []string) (previous []string, changed bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	previous = p.outline.Selected
	if slices.Equal(previous, ids) {
		return slices.Clone(previous), false
	}
	p.outline.Selected = slices.Clone(ids)
	return previous, true
}

// Selection returns the outlined node IDs
func (p *Pipeline) Selection() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.outline.Selected)
}

// Outline returns a copy of the outline pass
func (p *Pipeline) Outline() OutlinePass {
	p.mu.Lock()
	defer p.mu.Unlock()
	return *p.outline.clone()
}

// FXAA returns a copy of the FXAA pass
func (p *Pipeline) FXAA() FXAAPass {
	p.mu.Lock()
	defer p.mu.Unlock()
	return *p.fxaa
}

// Frames returns how many frames were rendered
func (p *Pipeline) Frames() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frames
}

// Render clears the renderer and submits one frame to the composer
func (p *Pipeline) Render(ctx context.Context, view, projection mgl32.Mat4) error {
	if err := ctx.Err(); err != nil {
		return errors.WrapWithCode(err, errors.CodeUnavailable, "render cancelled")
	}

	p.mu.Lock()
	p.frames++
	main := *p.main
	fxaa := *p.fxaa
	frame := &Frame{
		Number:     p.frames,
		Scene:      p.main.Scene,
		View:       view,
		Projection: projection,
		Width:      p.width,
		Height:     p.height,
		Passes:     []Pass{&main, p.outline.clone(), &fxaa},
	}
	p.mu.Unlock()

	p.renderer.Clear()
	if err := p.composer.Render(ctx, frame); err != nil {
		return errors.Wrapf(err, "render frame %d", frame.Number).
			WithMeta("scene", frame.Scene)
	}

	metrics.FramesRenderedTotal.Inc()
	return nil
}
