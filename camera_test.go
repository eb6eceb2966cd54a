package voxscene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/voxscene/volume"
)

func TestNewCamera(t *testing.T) {
	c := NewCamera()
	if c.Position != (mgl32.Vec3{0, 1.5, 20}) || c.FOV != 60 || c.Pitch != 0 || c.Yaw != 0 {
		t.Errorf("NewCamera() = %+v", c)
	}
}

func TestCameraViewProjection(t *testing.T) {
	c := Camera{Position: mgl32.Vec3{1, -2, 3}, Pitch: 15, Yaw: -30, FOV: 45}
	want := mgl32.Perspective(mgl32.DegToRad(45), 1.25, volume.Near, volume.Far).
		Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(15))).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(-30))).
		Mul4(mgl32.Translate3D(-1, 2, -3))
	if got := c.ViewProjection(1.25); !matNear(got, want, 1e-5) {
		t.Errorf("ViewProjection =\n%v\nwant\n%v", got, want)
	}

	// The camera position maps to the eye: w equals zero distance.
	clip := c.ViewProjection(1).Mul4x1(c.Position.Vec4(1))
	if mgl32.Abs(clip[3]) > 1e-4 {
		t.Errorf("eye w = %v, want 0", clip[3])
	}
}

func TestCameraMove(t *testing.T) {
	tests := []struct {
		name string
		in   CameraInput
		want mgl32.Vec3
	}{
		{"forward", CameraInput{Forward: true}, mgl32.Vec3{0, 0, -0.2}},
		{"back", CameraInput{Back: true}, mgl32.Vec3{0, 0, 0.2}},
		{"left", CameraInput{Left: true}, mgl32.Vec3{-0.2, 0, 0}},
		{"right", CameraInput{Right: true}, mgl32.Vec3{0.2, 0, 0}},
		{"forward and back", CameraInput{Forward: true, Back: true}, mgl32.Vec3{}},
		{"none", CameraInput{}, mgl32.Vec3{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Camera{}
			c.Move(tt.in, 2)
			if !vecNear(c.Position, tt.want, 1e-6) {
				t.Errorf("Position = %v, want %v", c.Position, tt.want)
			}
		})
	}
}

func TestCameraMoveFollowsYaw(t *testing.T) {
	c := Camera{Yaw: 90}
	c.Move(CameraInput{Forward: true}, 10)
	if !vecNear(c.Position, mgl32.Vec3{1, 0, 0}, 1e-5) {
		t.Errorf("Position = %v, want (1,0,0)", c.Position)
	}
}

func TestCameraLook(t *testing.T) {
	c := Camera{}
	c.Look(10, -20)
	if !mgl32.FloatEqual(c.Yaw, 1) || !mgl32.FloatEqual(c.Pitch, -2) {
		t.Errorf("yaw, pitch = %v, %v; want 1, -2", c.Yaw, c.Pitch)
	}
	c.Look(0, 5000)
	if c.Pitch != PitchLimit {
		t.Errorf("pitch = %v, want clamp at %v", c.Pitch, PitchLimit)
	}
	c.Look(0, -5000)
	if c.Pitch != -PitchLimit {
		t.Errorf("pitch = %v, want clamp at %v", c.Pitch, -PitchLimit)
	}
}

func TestCameraDrift(t *testing.T) {
	c := Camera{Pitch: 10, Yaw: 20}
	c.Drift(2)
	if c.Pitch != 12 || c.Yaw != 21 {
		t.Errorf("pitch, yaw = %v, %v; want 12, 21", c.Pitch, c.Yaw)
	}

	c = Camera{Pitch: 89.5, Yaw: 179.8}
	c.Drift(1)
	if c.Pitch != -PitchLimit {
		t.Errorf("pitch = %v, want wrap to %v", c.Pitch, -PitchLimit)
	}
	if c.Yaw != -180 {
		t.Errorf("yaw = %v, want wrap to -180", c.Yaw)
	}
}
