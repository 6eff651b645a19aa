package renderer

import (
	"github.com/chewxy/math32"
	"github.com/df07/go-scene-raytracer/pkg/core"
	"github.com/go-gl/mathgl/mgl32"
)

// Camera defaults
const (
	DefaultFOVDegrees = 45.0
	DefaultNear       = 0.1
	DefaultFar        = 100.0
	MaxPitchDegrees   = 89.0
)

var (
	maxPitch = MaxPitchDegrees * math32.Pi / 180
	minFOV   = 1 * math32.Pi / 180
	maxFOV   = 179 * math32.Pi / 180
	worldUp  = core.NewVec3(0, 1, 0)
)

// Camera is a yaw/pitch camera with zero roll. Yaw 0, pitch 0 looks down -Z.
// It is a plain value: copying a Camera snapshots it.
type Camera struct {
	position core.Vec3
	target   core.Vec3

	yaw   float32 // radians, rotation around world up
	pitch float32 // radians, clamped to ±89°

	forward core.Vec3
	right   core.Vec3
	up      core.Vec3

	fov    float32 // vertical field of view in radians
	aspect float32 // width / height
	near   float32
	far    float32
}

// NewCamera creates a camera at position looking at target
func NewCamera(position, target core.Vec3, aspect float32) Camera {
	if aspect <= 0 {
		aspect = 1
	}
	c := Camera{
		position: position,
		fov:      DefaultFOVDegrees * math32.Pi / 180,
		aspect:   aspect,
		near:     DefaultNear,
		far:      DefaultFar,
	}
	c.updateBasis()
	c.LookAt(target)
	return c
}

// updateBasis recomputes forward/right/up from yaw and pitch
func (c *Camera) updateBasis() {
	sinYaw, cosYaw := math32.Sincos(c.yaw)
	sinPitch, cosPitch := math32.Sincos(c.pitch)

	c.forward = core.NewVec3(sinYaw*cosPitch, sinPitch, -cosYaw*cosPitch)
	c.right = core.NewVec3(cosYaw, 0, sinYaw)
	c.up = c.right.Cross(c.forward)
}

func clampPitch(pitch float32) float32 {
	return max(-maxPitch, min(maxPitch, pitch))
}

// LookAt points the camera at target. A target equal to the position keeps the current angles.
func (c *Camera) LookAt(target core.Vec3) {
	direction := target.Subtract(c.position)
	if direction.LengthSquared() == 0 {
		c.target = c.position.Add(c.forward)
		return
	}

	d := direction.Normalize()
	c.pitch = clampPitch(math32.Asin(max(-1, min(1, d.Y))))
	c.yaw = math32.Atan2(d.X, -d.Z)
	c.updateBasis()
	c.target = target
}

// SetTarget is an alias for LookAt
func (c *Camera) SetTarget(target core.Vec3) {
	c.LookAt(target)
}

// SetPosition moves the camera and keeps it looking at its current target
func (c *Camera) SetPosition(position core.Vec3) {
	target := c.target
	c.position = position
	c.LookAt(target)
}

// Rotate adds to yaw and pitch (radians). Pitch is clamped.
func (c *Camera) Rotate(deltaYaw, deltaPitch float32) {
	c.yaw += deltaYaw
	c.pitch = clampPitch(c.pitch + deltaPitch)
	c.updateBasis()
	c.target = c.position.Add(c.forward)
}

// MoveRelative moves along the camera's forward and right axes and the world up axis
func (c *Camera) MoveRelative(forward, right, up float32) {
	delta := c.forward.Multiply(forward).
		Add(c.right.Multiply(right)).
		Add(worldUp.Multiply(up))
	c.MoveAbsolute(delta)
}

// MoveAbsolute translates the camera and its target by delta in world space
func (c *Camera) MoveAbsolute(delta core.Vec3) {
	c.position = c.position.Add(delta)
	c.target = c.target.Add(delta)
}

// SetAspectRatio sets width / height. Non-positive values are ignored.
func (c *Camera) SetAspectRatio(aspect float32) {
	if aspect > 0 {
		c.aspect = aspect
	}
}

// SetFOV sets the vertical field of view in radians, clamped to [1°, 179°]
func (c *Camera) SetFOV(fov float32) {
	c.fov = max(minFOV, min(maxFOV, fov))
}

// SetFOVDegrees sets the vertical field of view in degrees
func (c *Camera) SetFOVDegrees(degrees float32) {
	c.SetFOV(degrees * math32.Pi / 180)
}

func (c Camera) Position() core.Vec3  { return c.position }
func (c Camera) Target() core.Vec3    { return c.target }
func (c Camera) Yaw() float32         { return c.yaw }
func (c Camera) Pitch() float32       { return c.pitch }
func (c Camera) Forward() core.Vec3   { return c.forward }
func (c Camera) Right() core.Vec3     { return c.right }
func (c Camera) Up() core.Vec3        { return c.up }
func (c Camera) FOV() float32         { return c.fov }
func (c Camera) AspectRatio() float32 { return c.aspect }
func (c Camera) Near() float32        { return c.near }
func (c Camera) Far() float32         { return c.far }

// RayDirection returns the normalized world direction through image point (px, py).
// px and py are in pixels with (0, 0) at the top left; fractional values jitter inside a pixel.
func (c Camera) RayDirection(px, py float32, width, height int) core.Vec3 {
	ndcX := 2*px/float32(width) - 1
	ndcY := 1 - 2*py/float32(height)

	scale := math32.Tan(c.fov / 2)
	x := ndcX * scale * c.aspect
	y := ndcY * scale

	return c.forward.Add(c.right.Multiply(x)).Add(c.up.Multiply(y)).Normalize()
}

// Ray returns the camera ray through image point (px, py)
func (c Camera) Ray(px, py float32, width, height int) core.Ray {
	return core.NewRay(c.position, c.RayDirection(px, py, width, height))
}

// ProjectionMatrix returns the OpenGL style perspective matrix for the camera
func (c Camera) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(c.fov, c.aspect, c.near, c.far)
}

// ViewMatrix returns the world to camera transform
func (c Camera) ViewMatrix() mgl32.Mat4 {
	eye := toMgl(c.position)
	return mgl32.LookAtV(eye, eye.Add(toMgl(c.forward)), toMgl(c.up))
}

func toMgl(v core.Vec3) mgl32.Vec3 {
	return mgl32.Vec3(v.Array())
}
