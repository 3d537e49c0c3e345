// Package camera is the viewer's perspective camera with orbit controls.
package camera

import (
	"sync"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"

	"github.com/KirkDiggler/sceneview/internal/errors"
	"github.com/KirkDiggler/sceneview/internal/events"
	svlog "github.com/KirkDiggler/sceneview/internal/log"
)

// Defaults
const (
	DefaultFOV           float32 = 50
	DefaultNear          float32 = 0.01
	DefaultFar           float32 = 1000
	DefaultMaxPolarAngle float32 = math32.Pi * 0.5
	DefaultMinDistance   float32 = 0.1
	DefaultMaxDistance   float32 = 900
)

// minPolarAngle keeps the camera off the up axis, where the view matrix degenerates
const minPolarAngle float32 = 1e-4

// DefaultEye is where Fit places the camera
var DefaultEye = mgl32.Vec3{-2.3605424237310233, 1.2658040813285367, -1.1439639459812097}

// Config configures a Camera. Zero fields select the defaults.
type Config struct {
	Bus    *events.Bus
	Width  int
	Height int

	FOV  float32 // vertical, degrees
	Near float32
	Far  float32

	// DisableRotate turns off Rotate; the orbit limits still apply
	DisableRotate bool
	MaxPolarAngle float32 // radians from the up axis
	MinDistance   float32
	MaxDistance   float32

	Logger *zerolog.Logger
}

// Camera orbits a target point. It listens for resize on itself to keep its
// aspect ratio and triggers zoom on itself after Zoom.
type Camera struct {
	mu sync.RWMutex

	fov, aspect, near, far float32

	position mgl32.Vec3
	target   mgl32.Vec3
	up       mgl32.Vec3

	enableRotate  bool
	maxPolarAngle float32
	minDistance   float32
	maxDistance   float32

	bus    *events.Bus
	resize events.Subscription
	logger zerolog.Logger
}

// Ray is a half line used for picking
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3 // unit length
}

// At returns the point t units along the ray
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// New creates a camera at DefaultEye looking at the origin
func New(cfg *Config) (*Camera, error) {
	if cfg == nil || cfg.Bus == nil {
		return nil, errors.InvalidArgument("event bus is required")
	}

	c := &Camera{
		fov:           orDefault(cfg.FOV, DefaultFOV),
		aspect:        events.ResizeEvent{Width: cfg.Width, Height: cfg.Height}.Aspect(),
		near:          orDefault(cfg.Near, DefaultNear),
		far:           orDefault(cfg.Far, DefaultFar),
		position:      DefaultEye,
		up:            mgl32.Vec3{0, 1, 0},
		enableRotate:  !cfg.DisableRotate,
		maxPolarAngle: orDefault(cfg.MaxPolarAngle, DefaultMaxPolarAngle),
		minDistance:   orDefault(cfg.MinDistance, DefaultMinDistance),
		maxDistance:   orDefault(cfg.MaxDistance, DefaultMaxDistance),
		bus:           cfg.Bus,
	}
	if cfg.Logger != nil {
		c.logger = *cfg.Logger
	} else {
		c.logger = svlog.WithComponent("camera")
	}

	if c.near >= c.far {
		return nil, errors.Validationf("near plane %g must be closer than far plane %g", c.near, c.far)
	}
	if c.minDistance > c.maxDistance {
		return nil, errors.Validationf("min distance %g exceeds max distance %g", c.minDistance, c.maxDistance)
	}

	sub, err := events.On(c.bus, events.Resize, c, c.onResize)
	if err != nil {
		return nil, err
	}
	c.resize = sub

	return c, nil
}

func orDefault(v, def float32) float32 {
	if v == 0 {
		return def
	}
	return v
}

func (c *Camera) onResize(e events.ResizeEvent) error {
	c.mu.Lock()
	c.aspect = e.Aspect()
	c.mu.Unlock()

	c.logger.Debug().
		Str("event", "camera.resized").
		Int("width", e.Width).
		Int("height", e.Height).
		Msg("camera aspect updated")
	return nil
}

// Close stops listening for resize events
func (c *Camera) Close() {
	c.bus.Off(c.resize)
}

// Fit moves the camera to DefaultEye looking at center
func (c *Camera) Fit(center mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.target = center
	c.position = center.Add(DefaultEye)
	c.update()
}

// Update applies the orbit limits to the current position
func (c *Camera) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.update()
}

// update clamps the target offset to the polar angle and distance limits.
// Caller holds c.mu.
func (c *Camera) update() {
	radius, theta, phi := spherical(c.position.Sub(c.target))

	radius = clamp(radius, c.minDistance, c.maxDistance)
	phi = clamp(phi, minPolarAngle, c.maxPolarAngle)

	c.position = c.target.Add(cartesian(radius, theta, phi))
}

// Rotate orbits the camera by the given azimuth and polar deltas in radians.
// It is a no-op when rotation is disabled.
func (c *Camera) Rotate(azimuth, polar float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.enableRotate {
		return
	}

	radius, theta, phi := spherical(c.position.Sub(c.target))
	c.position = c.target.Add(cartesian(radius, theta+azimuth, phi+polar))
	c.update()
}

// Zoom divides the distance to the target by factor (above 1 moves closer),
// within the distance limits, then triggers zoom on the camera.
func (c *Camera) Zoom(factor float32) error {
	if factor <= 0 {
		return errors.InvalidArgumentf("zoom factor must be positive, got %g", factor)
	}

	c.mu.Lock()
	offset := c.position.Sub(c.target)
	c.position = c.target.Add(offset.Mul(1 / factor))
	c.update()
	distance := c.position.Sub(c.target).Len()
	c.mu.Unlock()

	return events.Trigger(c.bus, events.Zoom, c, events.ZoomEvent{Distance: distance, Factor: factor})
}

// FlyTo moves the orbit target to point, keeping the viewing offset
func (c *Camera) FlyTo(point mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()

	offset := c.position.Sub(c.target)
	c.target = point
	c.position = point.Add(offset)
	c.update()
}

// RotateAround turns the camera angle radians about the vertical axis
// through point and makes point the new orbit target
func (c *Camera) RotateAround(point mgl32.Vec3, angle float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	offset := mgl32.QuatRotate(angle, c.up).Rotate(c.position.Sub(point))
	c.target = point
	c.position = point.Add(offset)
	c.update()
}

func (c *Camera) Position() mgl32.Vec3 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.position
}

func (c *Camera) Target() mgl32.Vec3 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.target
}

func (c *Camera) Aspect() float32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.aspect
}

// Distance returns the distance from the camera to its target
func (c *Camera) Distance() float32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.position.Sub(c.target).Len()
}

// SetFOV changes the vertical field of view, in degrees
func (c *Camera) SetFOV(degrees float32) error {
	if degrees <= 0 || degrees >= 180 {
		return errors.Validationf("field of view must be within (0, 180), got %g", degrees)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = degrees
	return nil
}

func (c *Camera) FOV() float32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fov
}

// ViewMatrix returns the world-to-camera transform
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return mgl32.LookAtV(c.position, c.target, c.up)
}

// ProjectionMatrix returns the perspective projection
func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return mgl32.Perspective(mgl32.DegToRad(c.fov), c.aspect, c.near, c.far)
}

// Ray returns the world-space ray through ndc, where x and y are in [-1, 1]
// with y up
func (c *Camera) Ray(ndc mgl32.Vec2) Ray {
	inv := c.ProjectionMatrix().Mul4(c.ViewMatrix()).Inv()

	near := unproject(inv, mgl32.Vec4{ndc.X(), ndc.Y(), -1, 1})
	far := unproject(inv, mgl32.Vec4{ndc.X(), ndc.Y(), 1, 1})

	return Ray{Origin: c.Position(), Direction: far.Sub(near).Normalize()}
}

func unproject(inv mgl32.Mat4, clip mgl32.Vec4) mgl32.Vec3 {
	v := inv.Mul4x1(clip)
	return v.Vec3().Mul(1 / v.W())
}

// spherical converts an offset to radius, azimuth around +y from +z, and
// polar angle from +y
func spherical(v mgl32.Vec3) (radius, theta, phi float32) {
	radius = v.Len()
	if radius == 0 {
		return 0, 0, 0
	}
	theta = math32.Atan2(v.X(), v.Z())
	phi = math32.Acos(clamp(v.Y()/radius, -1, 1))
	return radius, theta, phi
}

func cartesian(radius, theta, phi float32) mgl32.Vec3 {
	sinPhi := math32.Sin(phi)
	return mgl32.Vec3{
		radius * sinPhi * math32.Sin(theta),
		radius * math32.Cos(phi),
		radius * sinPhi * math32.Cos(theta),
	}
}

func clamp(v, lo, hi float32) float32 {
	return math32.Max(lo, math32.Min(hi, v))
}
