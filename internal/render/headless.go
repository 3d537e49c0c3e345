package render

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/KirkDiggler/sceneview/internal/errors"
)

// Default runtime answers of a Headless renderer
var (
	DefaultHeadlessExtensions = []string{
		"EXT_color_buffer_float",
		"EXT_texture_filter_anisotropic",
		"OES_texture_float_linear",
	}

	DefaultHeadlessParameters = map[string]any{
		"MAX_TEXTURE_SIZE":      4096,
		"MAX_VIEWPORT_DIMS":     [2]int{8192, 8192},
		"MAX_SAMPLES":           4,
		"RENDERER":              "sceneview headless",
		"VENDOR":                "sceneview",
		"SHADING_LANGUAGE_NAME": "none",
	}
)

// HeadlessConfig configures a Headless renderer
type HeadlessConfig struct {
	Extensions []string
	Parameters map[string]any

	// KeepFrames bounds how many rendered frames are retained (default 1)
	KeepFrames int
}

// Headless is a Renderer and Composer that draws nothing. It records what it
// was asked to do, for the CLI and for tests.
type Headless struct {
	mu sync.Mutex

	width      int
	height     int
	pixelRatio float32
	clears     int

	passes   []Pass
	frames   []Frame
	keep     int
	rendered uint64

	extensions []string
	parameters map[string]any
}

// NewHeadless creates a headless renderer
func NewHeadless(cfg *HeadlessConfig) *Headless {
	if cfg == nil {
		cfg = &HeadlessConfig{}
	}

	h := &Headless{
		pixelRatio: 1,
		keep:       cfg.KeepFrames,
		extensions: slices.Clone(cfg.Extensions),
		parameters: maps.Clone(cfg.Parameters),
	}
	if h.keep <= 0 {
		h.keep = 1
	}
	if h.extensions == nil {
		h.extensions = slices.Clone(DefaultHeadlessExtensions)
	}
	if h.parameters == nil {
		h.parameters = maps.Clone(DefaultHeadlessParameters)
	}
	return h
}

func (h *Headless) SetSize(width, height int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.width, h.height = width, height
}

func (h *Headless) SetPixelRatio(ratio float32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pixelRatio = ratio
}

func (h *Headless) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clears++
}

func (h *Headless) SupportedExtensions(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.extensions), nil
}

func (h *Headless) Parameter(ctx context.Context, name string) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	v, ok := h.parameters[name]
	if !ok {
		return nil, errors.NotFoundf("unknown parameter %s", name)
	}
	return v, nil
}

func (h *Headless) AddPass(pass Pass) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.passes = append(h.passes, pass)
}

// Render records the frame. The frame's passes must match the registered chain.
func (h *Headless) Render(ctx context.Context, frame *Frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if frame == nil {
		return errors.InvalidArgument("frame is nil")
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.passes) == 0 {
		return errors.Internalf("no passes registered")
	}
	if got, want := passNames(frame.Passes), passNames(h.passes); !slices.Equal(got, want) {
		return errors.Internalf("frame passes %v do not match chain %v", got, want)
	}

	h.rendered++
	h.frames = append(h.frames, *frame)
	if len(h.frames) > h.keep {
		h.frames = slices.Delete(h.frames, 0, len(h.frames)-h.keep)
	}
	return nil
}

func passNames(passes []Pass) []string {
	names := make([]string, len(passes))
	for i, p := range passes {
		names[i] = p.Name()
	}
	return names
}

// Size returns the last size set
func (h *Headless) Size() (width, height int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.width, h.height
}

func (h *Headless) PixelRatio() float32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pixelRatio
}

// Clears returns how many times Clear was called
func (h *Headless) Clears() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.clears
}

// PassNames returns the registered chain
func (h *Headless) PassNames() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return passNames(h.passes)
}

// FramesRendered returns how many frames were accepted
func (h *Headless) FramesRendered() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rendered
}

// LastFrame returns the most recent frame
func (h *Headless) LastFrame() (Frame, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.frames) == 0 {
		return Frame{}, false
	}
	return h.frames[len(h.frames)-1], true
}

// Frames returns the retained frames, oldest first
func (h *Headless) Frames() []Frame {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.frames)
}
