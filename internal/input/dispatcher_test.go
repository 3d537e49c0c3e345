package input_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	sverrors "github.com/KirkDiggler/sceneview/internal/errors"
	"github.com/KirkDiggler/sceneview/internal/events"
	"github.com/KirkDiggler/sceneview/internal/input"
	"github.com/KirkDiggler/sceneview/internal/metrics"
)

type viewport struct{ name string }

type DispatcherTestSuite struct {
	suite.Suite
	bus    *events.Bus
	target *viewport
	d      *input.Dispatcher[viewport]
	moves  []events.MouseEvent
}

func (s *DispatcherTestSuite) SetupTest() {
	s.bus = events.NewBus(nil)
	s.target = &viewport{name: "canvas"}
	s.moves = nil

	d, err := input.NewDispatcher(&input.Config{Bus: s.bus, Width: 800, Height: 600}, s.target)
	s.Require().NoError(err)
	s.d = d

	_, err = events.On(s.bus, events.MouseMove, s.target, func(e events.MouseEvent) error {
		s.moves = append(s.moves, e)
		return nil
	})
	s.Require().NoError(err)
}

func (s *DispatcherTestSuite) dropped(reason string) float64 {
	return testutil.ToFloat64(metrics.PointerSamplesDroppedTotal.WithLabelValues(reason))
}

func (s *DispatcherTestSuite) TestNDC() {
	tests := []struct {
		name   string
		x, y   float64
		expect mgl32.Vec2
	}{
		{name: "top left", x: 0, y: 0, expect: mgl32.Vec2{-1, 1}},
		{name: "center", x: 400, y: 300, expect: mgl32.Vec2{0, 0}},
		{name: "bottom right", x: 800, y: 600, expect: mgl32.Vec2{1, -1}},
		{name: "quarter", x: 200, y: 450, expect: mgl32.Vec2{-0.5, -0.5}},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			got := s.d.NDC(tt.x, tt.y)
			s.InDelta(tt.expect.X(), got.X(), 1e-6)
			s.InDelta(tt.expect.Y(), got.Y(), 1e-6)
		})
	}
}

func (s *DispatcherTestSuite) TestPointerMove() {
	s.Require().NoError(s.d.PointerMove(input.PointerSample{ClientX: 400, ClientY: 300, IsPrimary: true}))

	s.Require().Len(s.moves, 1)
	s.InDelta(0, s.moves[0].Mouse.X(), 1e-6)
	s.InDelta(0, s.moves[0].Mouse.Y(), 1e-6)
}

func (s *DispatcherTestSuite) TestNonPrimaryIgnored() {
	before := s.dropped(input.DropNonPrimary)

	var clicks int
	_, err := events.On(s.bus, events.Click, s.target, func(events.MouseEvent) error {
		clicks++
		return nil
	})
	s.Require().NoError(err)

	s.Require().NoError(s.d.PointerMove(input.PointerSample{ClientX: 1, ClientY: 1}))
	s.Require().NoError(s.d.Click(input.PointerSample{ClientX: 1, ClientY: 1}))

	s.Empty(s.moves)
	s.Zero(clicks)
	s.Equal(before+2, s.dropped(input.DropNonPrimary))
}

func (s *DispatcherTestSuite) TestPointerMoveRateLimited() {
	d, err := input.NewDispatcher(&input.Config{
		Bus:          s.bus,
		Width:        800,
		Height:       600,
		PointerRate:  0.001,
		PointerBurst: 2,
	}, s.target)
	s.Require().NoError(err)
	before := s.dropped(input.DropRateLimited)

	for range 5 {
		s.Require().NoError(d.PointerMove(input.PointerSample{ClientX: 10, ClientY: 10, IsPrimary: true}))
	}

	s.Len(s.moves, 2)
	s.Equal(before+3, s.dropped(input.DropRateLimited))
}

func (s *DispatcherTestSuite) TestButtonsAndKeysPassThrough() {
	var got []string
	record := func(name string) func(events.MouseEvent) error {
		return func(e events.MouseEvent) error {
			s.Equal(2, e.Button)
			got = append(got, name)
			return nil
		}
	}
	for _, ch := range []events.Channel[events.MouseEvent]{events.MouseDown, events.MouseUp, events.Click, events.DoubleClick} {
		_, err := events.On(s.bus, ch, s.target, record(ch.Name()))
		s.Require().NoError(err)
	}
	for _, ch := range []events.Channel[events.KeyEvent]{events.KeyDown, events.KeyPress, events.KeyUp} {
		_, err := events.On(s.bus, ch, s.target, func(e events.KeyEvent) error {
			s.Equal("Escape", e.Key)
			got = append(got, ch.Name())
			return nil
		})
		s.Require().NoError(err)
	}

	sample := input.PointerSample{ClientX: 5, ClientY: 5, Button: 2, IsPrimary: true}
	s.Require().NoError(s.d.PointerDown(sample))
	s.Require().NoError(s.d.PointerUp(sample))
	s.Require().NoError(s.d.Click(sample))
	s.Require().NoError(s.d.DoubleClick(sample))

	key := events.KeyEvent{Key: "Escape", Code: "Escape"}
	s.Require().NoError(s.d.KeyDown(key))
	s.Require().NoError(s.d.KeyPress(key))
	s.Require().NoError(s.d.KeyUp(key))

	s.Equal([]string{"mousedown", "mouseup", "click", "dblclick", "keydown", "keypress", "keyup"}, got)
}

func (s *DispatcherTestSuite) TestResize() {
	var got events.ResizeEvent
	_, err := events.On(s.bus, events.Resize, s.target, func(e events.ResizeEvent) error {
		// the viewport is already updated when listeners run
		w, h := s.d.Viewport()
		s.Equal(e.Width, w)
		s.Equal(e.Height, h)
		got = e
		return nil
	})
	s.Require().NoError(err)

	s.Require().NoError(s.d.Resize(1600, 900))
	s.Equal(events.ResizeEvent{Width: 1600, Height: 900}, got)

	ndc := s.d.NDC(1600, 0)
	s.InDelta(1, ndc.X(), 1e-6)

	s.True(sverrors.IsValidation(s.d.Resize(0, 900)))
}

func (s *DispatcherTestSuite) TestSubscriberErrorSurfaces() {
	_, err := events.On(s.bus, events.Click, s.target, func(events.MouseEvent) error {
		return sverrors.Internalf("boom")
	})
	s.Require().NoError(err)

	err = s.d.Click(input.PointerSample{IsPrimary: true})
	s.True(sverrors.IsInternal(err))
}

func TestDispatcherTestSuite(t *testing.T) {
	suite.Run(t, new(DispatcherTestSuite))
}

func TestNewDispatcher_Validation(t *testing.T) {
	bus := events.NewBus(nil)

	_, err := input.NewDispatcher[viewport](nil, &viewport{})
	if !sverrors.IsInvalidArgument(err) {
		t.Errorf("nil config: got %v", err)
	}

	_, err = input.NewDispatcher[viewport](&input.Config{Bus: bus, Width: 1, Height: 1}, nil)
	if !sverrors.IsInvalidArgument(err) {
		t.Errorf("nil target: got %v", err)
	}

	_, err = input.NewDispatcher(&input.Config{Bus: bus}, &viewport{})
	if !sverrors.IsValidation(err) {
		t.Errorf("empty viewport: got %v", err)
	}
}
