package render_test

import (
	"context"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	sverrors "github.com/KirkDiggler/sceneview/internal/errors"
	"github.com/KirkDiggler/sceneview/internal/render"
	mockrender "github.com/KirkDiggler/sceneview/internal/render/mock"
	"github.com/KirkDiggler/sceneview/internal/rendering"
)

type PipelineTestSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	renderer *mockrender.MockRenderer
	composer *mockrender.MockComposer
	pipeline *render.Pipeline
}

func (s *PipelineTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.renderer = mockrender.NewMockRenderer(s.ctrl)
	s.composer = mockrender.NewMockComposer(s.ctrl)

	gomock.InOrder(
		s.renderer.EXPECT().SetPixelRatio(float32(2)),
		s.renderer.EXPECT().SetSize(800, 600),
		s.composer.EXPECT().AddPass(gomock.AssignableToTypeOf(&render.RenderPass{})),
		s.composer.EXPECT().AddPass(gomock.AssignableToTypeOf(&render.OutlinePass{})),
		s.composer.EXPECT().AddPass(gomock.AssignableToTypeOf(&render.FXAAPass{})),
	)

	p, err := render.NewPipeline(&render.PipelineConfig{
		Renderer:   s.renderer,
		Composer:   s.composer,
		Scene:      "plant",
		Width:      800,
		Height:     600,
		PixelRatio: 2,
	})
	s.Require().NoError(err)
	s.pipeline = p
}

func (s *PipelineTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *PipelineTestSuite) TestOutlineDefaults() {
	outline := s.pipeline.Outline()

	s.Equal(float32(3), outline.EdgeStrength)
	s.Equal(float32(0), outline.EdgeGlow)
	s.Equal(float32(1), outline.EdgeThickness)
	s.Equal(float32(0), outline.PulsePeriod)
	s.False(outline.UsePatternTexture)
	s.Equal("#ffffff", outline.VisibleEdgeColor)
	s.Equal("#190a05", outline.HiddenEdgeColor)
	s.Empty(outline.Selected)
	s.False(outline.Enabled())
}

func (s *PipelineTestSuite) TestFXAAResolution() {
	fxaa := s.pipeline.FXAA()
	s.InDelta(1.0/800, fxaa.Resolution.X(), 1e-9)
	s.InDelta(1.0/600, fxaa.Resolution.Y(), 1e-9)
}

func (s *PipelineTestSuite) TestResize() {
	s.renderer.EXPECT().SetSize(1024, 512)
	s.composer.EXPECT().SetSize(1024, 512)

	s.Require().NoError(s.pipeline.Resize(1024, 512))

	fxaa := s.pipeline.FXAA()
	s.InDelta(1.0/1024, fxaa.Resolution.X(), 1e-9)
	s.InDelta(1.0/512, fxaa.Resolution.Y(), 1e-9)

	outline := s.pipeline.Outline()
	s.Equal(1024, outline.Width)
	s.Equal(512, outline.Height)

	w, h := s.pipeline.Size()
	s.Equal(1024, w)
	s.Equal(512, h)
}

func (s *PipelineTestSuite) TestResize_RejectsEmptyViewport() {
	err := s.pipeline.Resize(0, 600)
	s.True(sverrors.IsValidation(err))
	s.Equal(0, sverrors.GetMeta(err)["width"])
}

func (s *PipelineTestSuite) TestSelection() {
	prev, changed := s.pipeline.SetSelection([]string{"pump-1"})
	s.True(changed)
	s.Empty(prev)
	outline := s.pipeline.Outline()
	s.True(outline.Enabled())

	prev, changed = s.pipeline.SetSelection([]string{"pump-1"})
	s.False(changed)
	s.Equal([]string{"pump-1"}, prev)

	prev, changed = s.pipeline.SetSelection(nil)
	s.True(changed)
	s.Equal([]string{"pump-1"}, prev)
	s.Empty(s.pipeline.Selection())
}

func (s *PipelineTestSuite) TestSetSceneClearsSelection() {
	s.pipeline.SetSelection([]string{"pump-1"})

	s.pipeline.SetScene("hall")

	s.Equal("hall", s.pipeline.Scene())
	s.Empty(s.pipeline.Selection())
}

func (s *PipelineTestSuite) TestApplyParameter() {
	param := rendering.Defaults()
	param.EffectOutlineEdgeStrength = 4
	param.EffectOutlineVisibleEdgeColor = "#ff0000"

	s.pipeline.SetSelection([]string{"valve-7"})
	s.Require().NoError(s.pipeline.ApplyParameter(param))

	outline := s.pipeline.Outline()
	s.Equal(float32(4), outline.EdgeStrength)
	s.Equal("#ff0000", outline.VisibleEdgeColor)
	// untouched options keep the pass style, not the parameter default
	s.Equal("#190a05", outline.HiddenEdgeColor)
	s.Equal([]string{"valve-7"}, outline.Selected)

	s.Require().NoError(s.pipeline.ApplyParameter(rendering.Defaults()))
	s.Equal(float32(3), s.pipeline.Outline().EdgeStrength)
}

func (s *PipelineTestSuite) TestApplyParameter_Invalid() {
	param := rendering.Defaults()
	param.EffectOutlineEdgeStrength = 99

	s.True(sverrors.IsValidation(s.pipeline.ApplyParameter(param)))
	s.Equal(float32(3), s.pipeline.Outline().EdgeStrength)

	s.True(sverrors.IsInvalidArgument(s.pipeline.ApplyParameter(nil)))
}

func (s *PipelineTestSuite) TestRender() {
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	proj := mgl32.Perspective(mgl32.DegToRad(50), 800.0/600.0, 0.01, 1000)
	s.pipeline.SetSelection([]string{"pump-2"})

	var got *render.Frame
	gomock.InOrder(
		s.renderer.EXPECT().Clear(),
		s.composer.EXPECT().Render(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, f *render.Frame) error {
				got = f
				return nil
			}),
	)

	s.Require().NoError(s.pipeline.Render(context.Background(), view, proj))

	s.Require().NotNil(got)
	s.Equal(uint64(1), got.Number)
	s.Equal("plant", got.Scene)
	s.Equal(view, got.View)
	s.Equal(proj, got.Projection)
	s.Equal(800, got.Width)
	s.Require().Len(got.Passes, 3)
	s.Equal(render.PassRender, got.Passes[0].Name())
	s.Equal(render.PassOutline, got.Passes[1].Name())
	s.Equal(render.PassFXAA, got.Passes[2].Name())

	// the frame is a snapshot
	s.pipeline.SetSelection(nil)
	s.Equal([]string{"pump-2"}, got.Passes[1].(*render.OutlinePass).Selected)
	s.Equal(uint64(1), s.pipeline.Frames())
}

func (s *PipelineTestSuite) TestRender_ComposerError() {
	s.renderer.EXPECT().Clear()
	s.composer.EXPECT().Render(gomock.Any(), gomock.Any()).Return(sverrors.Internalf("lost context"))

	err := s.pipeline.Render(context.Background(), mgl32.Ident4(), mgl32.Ident4())

	s.Require().Error(err)
	s.True(sverrors.IsInternal(err))
	s.Equal("plant", sverrors.GetMeta(err)["scene"])
}

func (s *PipelineTestSuite) TestRender_Cancelled() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.pipeline.Render(ctx, mgl32.Ident4(), mgl32.Ident4())
	s.True(sverrors.Is(err, sverrors.CodeUnavailable))
}

func TestPipelineTestSuite(t *testing.T) {
	suite.Run(t, new(PipelineTestSuite))
}

func TestNewPipeline_Validation(t *testing.T) {
	headless := render.NewHeadless(nil)

	tests := []struct {
		name string
		cfg  *render.PipelineConfig
		code sverrors.Code
	}{
		{name: "nil config", cfg: nil, code: sverrors.CodeInvalidArgument},
		{name: "no renderer", cfg: &render.PipelineConfig{Composer: headless, Width: 1, Height: 1}, code: sverrors.CodeInvalidArgument},
		{name: "no composer", cfg: &render.PipelineConfig{Renderer: headless, Width: 1, Height: 1}, code: sverrors.CodeInvalidArgument},
		{name: "empty viewport", cfg: &render.PipelineConfig{Renderer: headless, Composer: headless}, code: sverrors.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := render.NewPipeline(tt.cfg)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := sverrors.GetCode(err); got != tt.code {
				t.Errorf("code = %s, want %s", got, tt.code)
			}
		})
	}
}
