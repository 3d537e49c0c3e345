package render_test

import (
	"context"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sverrors "github.com/KirkDiggler/sceneview/internal/errors"
	"github.com/KirkDiggler/sceneview/internal/render"
)

func TestHeadlessPipeline(t *testing.T) {
	headless := render.NewHeadless(&render.HeadlessConfig{KeepFrames: 2})

	p, err := render.NewPipeline(&render.PipelineConfig{
		Renderer: headless,
		Composer: headless,
		Scene:    "plant",
		Width:    640,
		Height:   480,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{render.PassRender, render.PassOutline, render.PassFXAA}, headless.PassNames())
	assert.Equal(t, float32(1), headless.PixelRatio())

	for range 3 {
		require.NoError(t, p.Render(context.Background(), mgl32.Ident4(), mgl32.Ident4()))
	}

	assert.Equal(t, uint64(3), headless.FramesRendered())
	assert.Equal(t, 3, headless.Clears())

	frames := headless.Frames()
	require.Len(t, frames, 2)
	assert.Equal(t, uint64(2), frames[0].Number)
	assert.Equal(t, uint64(3), frames[1].Number)

	last, ok := headless.LastFrame()
	require.True(t, ok)
	assert.Equal(t, "plant", last.Scene)

	require.NoError(t, p.Resize(320, 240))
	w, h := headless.Size()
	assert.Equal(t, 320, w)
	assert.Equal(t, 240, h)
}

func TestHeadlessRender_Rejects(t *testing.T) {
	ctx := context.Background()
	headless := render.NewHeadless(nil)

	_, ok := headless.LastFrame()
	assert.False(t, ok)

	assert.True(t, sverrors.IsInvalidArgument(headless.Render(ctx, nil)))
	assert.True(t, sverrors.IsInternal(headless.Render(ctx, &render.Frame{})))

	headless.AddPass(&render.RenderPass{})
	err := headless.Render(ctx, &render.Frame{Passes: []render.Pass{&render.FXAAPass{}}})
	assert.True(t, sverrors.IsInternal(err))
	assert.Equal(t, uint64(0), headless.FramesRendered())
}

func TestHeadlessQueries(t *testing.T) {
	ctx := context.Background()
	headless := render.NewHeadless(&render.HeadlessConfig{
		Extensions: []string{"OES_texture_float_linear"},
		Parameters: map[string]any{"MAX_TEXTURE_SIZE": 2048},
	})

	exts, err := headless.SupportedExtensions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"OES_texture_float_linear"}, exts)

	v, err := headless.Parameter(ctx, "MAX_TEXTURE_SIZE")
	require.NoError(t, err)
	assert.Equal(t, 2048, v)

	_, err = headless.Parameter(ctx, "MAX_SAMPLES")
	assert.True(t, sverrors.IsNotFound(err))
}
