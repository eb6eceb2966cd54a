package voxscene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/voxscene/volume"
)

// Camera defaults.
const (
	DefaultFOV       = 60
	CameraSpeed      = 0.1
	MouseSensitivity = 0.1
	PitchLimit       = 90
)

// Camera is a free-flying first-person camera. Angles are in degrees.
type Camera struct {
	Position mgl32.Vec3
	Pitch    float32
	Yaw      float32
	FOV      float32
}

// NewCamera returns a camera at (0, 1.5, 20) looking down -z.
func NewCamera() Camera {
	return Camera{
		Position: mgl32.Vec3{0, 1.5, 20},
		FOV:      DefaultFOV,
	}
}

// ViewProjection returns projection * rotX(pitch) * rotY(yaw) * translate(-position).
func (c *Camera) ViewProjection(aspect float32) mgl32.Mat4 {
	fov := c.FOV
	if fov <= 0 {
		fov = DefaultFOV
	}
	if aspect <= 0 {
		aspect = 1
	}
	proj := mgl32.Perspective(mgl32.DegToRad(fov), aspect, volume.Near, volume.Far)
	return proj.
		Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(c.Pitch))).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(c.Yaw))).
		Mul4(mgl32.Translate3D(-c.Position[0], -c.Position[1], -c.Position[2]))
}

// Forward returns the unit view direction.
func (c *Camera) Forward() mgl32.Vec3 {
	sp, cp := sincos(c.Pitch)
	sy, cy := sincos(c.Yaw)
	return mgl32.Vec3{cp * sy, -sp, -cp * cy}
}

// Right returns the unit strafe direction. It stays horizontal.
func (c *Camera) Right() mgl32.Vec3 {
	sy, cy := sincos(c.Yaw)
	return mgl32.Vec3{cy, 0, sy}
}

func sincos(deg float32) (sin, cos float32) {
	s, co := math.Sincos(float64(mgl32.DegToRad(deg)))
	return float32(s), float32(co)
}

// CameraInput is the movement keys held during a frame.
type CameraInput struct {
	Forward, Back, Left, Right bool
}

// Move translates the camera by CameraSpeed*dt along the held directions.
func (c *Camera) Move(in CameraInput, dt float32) {
	speed := CameraSpeed * dt
	fwd, right := c.Forward().Mul(speed), c.Right().Mul(speed)
	if in.Forward {
		c.Position = c.Position.Add(fwd)
	}
	if in.Back {
		c.Position = c.Position.Sub(fwd)
	}
	if in.Left {
		c.Position = c.Position.Sub(right)
	}
	if in.Right {
		c.Position = c.Position.Add(right)
	}
}

// Look turns the camera by a mouse delta in pixels. Pitch is clamped to
// ±PitchLimit.
func (c *Camera) Look(dx, dy float32) {
	c.Yaw += dx * MouseSensitivity
	c.Pitch = mgl32.Clamp(c.Pitch+dy*MouseSensitivity, -PitchLimit, PitchLimit)
}

// Drift rotates the camera slowly without input: pitch by dt and yaw by
// dt/2 degrees. Pitch wraps from +90 to -90 and yaw from +180 to -180.
func (c *Camera) Drift(dt float32) {
	c.Pitch += dt
	c.Yaw += 0.5 * dt
	if c.Pitch >= PitchLimit {
		c.Pitch = -PitchLimit
	}
	if c.Yaw >= 180 {
		c.Yaw = -180
	}
}
