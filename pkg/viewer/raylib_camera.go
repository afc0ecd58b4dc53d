package viewer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/meshview/pkg/geometry"
)

// orbit holds the raylib camera and its spherical coordinates
type orbit struct {
	camera   rl.Camera3D
	distance float32
	angleX   float32
	angleY   float32
	target   rl.Vector3

	defaultDist   float32
	defaultTarget rl.Vector3
}

const (
	defaultAngleX = 0.3
	defaultAngleY = 0.3
)

func newOrbit(bbox geometry.BoundingBox) *orbit {
	o := &orbit{
		camera: rl.Camera3D{
			Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
			Fovy:       45.0,
			Projection: rl.CameraPerspective,
		},
	}
	o.frame(bbox)
	return o
}

// frame points the camera at a bounding box and makes that the reset view
func (o *orbit) frame(bbox geometry.BoundingBox) {
	distance := float32(bbox.Size().MaxComponent() * 2.0)
	if distance <= 0 {
		distance = 1
	}
	o.defaultDist = distance
	o.defaultTarget = toRL(bbox.Center())
	o.reset()
}

func (o *orbit) reset() {
	o.distance = o.defaultDist
	o.angleX = defaultAngleX
	o.angleY = defaultAngleY
	o.target = o.defaultTarget
	o.update()
}

func (o *orbit) rotate(delta rl.Vector2) {
	o.angleY += delta.X * 0.01
	o.angleX -= delta.Y * 0.01
	if o.angleX > 1.5 {
		o.angleX = 1.5
	}
	if o.angleX < -1.5 {
		o.angleX = -1.5
	}
}

func (o *orbit) zoom(wheel float32) {
	o.distance *= 1.0 - wheel*0.1
	if floor := o.defaultDist * 0.01; o.distance < floor {
		o.distance = floor
	}
}

// pan moves the target in the view plane
func (o *orbit) pan(delta rl.Vector2) {
	forward := rl.Vector3Normalize(rl.Vector3Subtract(o.target, o.camera.Position))
	right := rl.Vector3Normalize(rl.Vector3CrossProduct(forward, o.camera.Up))
	up := rl.Vector3Normalize(rl.Vector3CrossProduct(right, forward))

	panSpeed := o.distance * 0.001
	o.target = rl.Vector3Add(o.target, rl.Vector3Scale(right, -delta.X*panSpeed))
	o.target = rl.Vector3Add(o.target, rl.Vector3Scale(up, delta.Y*panSpeed))
}

// update recomputes the camera position from the angles
func (o *orbit) update() {
	x := o.distance * float32(math.Cos(float64(o.angleX))) * float32(math.Sin(float64(o.angleY)))
	y := o.distance * float32(math.Sin(float64(o.angleX)))
	z := o.distance * float32(math.Cos(float64(o.angleX))) * float32(math.Cos(float64(o.angleY)))

	o.camera.Position = rl.Vector3{X: o.target.X + x, Y: o.target.Y + y, Z: o.target.Z + z}
	o.camera.Target = o.target
}
