// Package camera provides the tray viewer camera.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Bounds is the half-extent of the play area on the ground plane.
type Bounds struct {
	HalfX, HalfZ float64
}

// TrayCamera is a perspective camera that orbits the tray center and looks
// down at the dice.
type TrayCamera struct {
	Target mgl32.Vec3

	// Spherical coordinates around Target
	Distance float32
	Pitch    float32 // elevation above the ground plane, radians
	Yaw      float32 // rotation about +Y, radians

	FOV    float32 // vertical field of view, degrees
	Aspect float32
	Near   float32
	Far    float32

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
}

// New returns a camera positioned at (0, 22, 10) looking at the origin with
// a 45 degree field of view.
func New(aspect float32) *TrayCamera {
	return &TrayCamera{
		Distance:        float32(math.Hypot(22, 10)),
		Pitch:           float32(math.Atan2(22, 10)),
		FOV:             45,
		Aspect:          aspect,
		Near:            0.1,
		Far:             100,
		MinDistance:     8,
		MaxDistance:     60,
		MinPitch:        0.3,
		MaxPitch:        1.55,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position in world space.
func (c *TrayCamera) Position() mgl32.Vec3 {
	sp, cp := math.Sincos(float64(c.Pitch))
	sy, cy := math.Sincos(float64(c.Yaw))
	return c.Target.Add(mgl32.Vec3{
		c.Distance * float32(cp*sy),
		c.Distance * float32(sp),
		c.Distance * float32(cp*cy),
	})
}

// View returns the view matrix.
func (c *TrayCamera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Target, mgl32.Vec3{0, 1, 0})
}

// Projection returns the perspective projection matrix.
func (c *TrayCamera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

// ViewProjection returns Projection * View.
func (c *TrayCamera) ViewProjection() mgl32.Mat4 {
	return c.Projection().Mul4(c.View())
}

// SetAspect updates the aspect ratio after a resize.
func (c *TrayCamera) SetAspect(width, height int) {
	if height > 0 {
		c.Aspect = float32(width) / float32(height)
	}
}

// HandleDrag orbits the camera by a mouse drag delta.
func (c *TrayCamera) HandleDrag(deltaX, deltaY float32) {
	c.Yaw -= deltaX * c.DragSensitivity
	c.Pitch += deltaY * c.DragSensitivity
	c.Pitch = mgl32.Clamp(c.Pitch, c.MinPitch, c.MaxPitch)
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *TrayCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.Distance = mgl32.Clamp(c.Distance, c.MinDistance, c.MaxDistance)
}

// PlayBounds returns an origin-centered rectangle on the ground plane that
// stays inside the view, inset by margin and never smaller than minHalf on
// either axis. Each half-extent is the smallest distance from the origin
// along that axis at which a screen-corner ray meets the ground, so the
// narrow near edge of the view trapezoid bounds X. Corner rays that miss
// the ground are ignored.
func (c *TrayCamera) PlayBounds(margin, minHalf float64) Bounds {
	inv := c.ViewProjection().Inv()
	halfX, halfZ := math.Inf(1), math.Inf(1)

	for _, nx := range []float32{-1, 1} {
		for _, ny := range []float32{-1, 1} {
			near := unproject(inv, nx, ny, -1)
			far := unproject(inv, nx, ny, 1)
			p, ok := groundHit(near, far)
			if !ok {
				continue
			}
			halfX = math.Min(halfX, math.Abs(p[0]))
			halfZ = math.Min(halfZ, math.Abs(p[2]))
		}
	}

	return Bounds{
		HalfX: inset(halfX, margin, minHalf),
		HalfZ: inset(halfZ, margin, minHalf),
	}
}

func inset(half, margin, minHalf float64) float64 {
	if math.IsInf(half, 0) {
		return minHalf
	}
	return math.Max(half-margin, minHalf)
}

func unproject(inv mgl32.Mat4, x, y, z float32) [3]float64 {
	v := inv.Mul4x1(mgl32.Vec4{x, y, z, 1})
	w := float64(v[3])
	return [3]float64{float64(v[0]) / w, float64(v[1]) / w, float64(v[2]) / w}
}

// groundHit intersects the ray from a through b with y = 0.
func groundHit(a, b [3]float64) ([3]float64, bool) {
	dy := b[1] - a[1]
	if math.Abs(dy) < 1e-12 {
		return [3]float64{}, false
	}
	t := -a[1] / dy
	if t < 0 {
		return [3]float64{}, false
	}
	return [3]float64{a[0] + t*(b[0]-a[0]), 0, a[2] + t*(b[2]-a[2])}, true
}
