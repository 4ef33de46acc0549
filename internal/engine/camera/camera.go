// Package camera provides a free-fly camera for the viewer.
package camera

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera looks along -N from Eye. U, V and N form a right-handed orthonormal
// basis: U points right, V up and N backwards. Up is the world up axis that
// sideways rotation turns around.
type Camera struct {
	eye mgl32.Vec3
	up  mgl32.Vec3

	u, v, n mgl32.Vec3

	view       mgl32.Mat4
	projection mgl32.Mat4
}

// New creates a camera at eye looking at focus.
func New(eye, focus, up mgl32.Vec3) *Camera {
	c := &Camera{projection: mgl32.Ident4()}
	c.SetView(eye, focus, up)
	return c
}

// SetView places the camera at eye looking at focus. up must not be parallel
// to the view direction.
func (c *Camera) SetView(eye, focus, up mgl32.Vec3) {
	c.eye = eye
	c.up = up.Normalize()

	c.n = eye.Sub(focus).Normalize()
	c.u = c.up.Cross(c.n).Normalize()
	c.v = c.n.Cross(c.u)
	c.updateView()
}

// SetPerspective sets the projection. fovy is in degrees.
func (c *Camera) SetPerspective(fovy, aspect, near, far float32) {
	c.projection = mgl32.Perspective(mgl32.DegToRad(fovy), aspect, near, far)
}

// MoveStraight moves the eye forward by dist, or backwards when negative.
func (c *Camera) MoveStraight(dist float32) {
	c.eye = c.eye.Sub(c.n.Mul(dist))
	c.updateView()
}

// MoveSideways moves the eye right by dist, or left when negative.
func (c *Camera) MoveSideways(dist float32) {
	c.eye = c.eye.Add(c.u.Mul(dist))
	c.updateView()
}

// RotateUpwards pitches the view direction by ang radians around the
// camera's right axis.
func (c *Camera) RotateUpwards(ang float32) {
	c.n = mgl32.QuatRotate(ang, c.u).Rotate(c.n).Normalize()
	c.v = c.n.Cross(c.u)
	c.updateView()
}

// RotateSideways turns the view direction by ang radians around the world
// up axis.
func (c *Camera) RotateSideways(ang float32) {
	c.n = mgl32.QuatRotate(ang, c.up).Rotate(c.n).Normalize()
	c.u = c.up.Cross(c.n).Normalize()
	c.v = c.n.Cross(c.u)
	c.updateView()
}

// Frame moves the eye back along the view direction until a sphere of
// radius around center fills a vertical field of view of fovy degrees.
func (c *Camera) Frame(center mgl32.Vec3, radius, fovy float32) {
	if radius <= 0 {
		radius = 1
	}
	half := mgl32.DegToRad(fovy) / 2
	dist := radius / float32(gomath.Sin(float64(half)))
	c.eye = center.Add(c.n.Mul(dist))
	c.updateView()
}

// Eye returns the camera position.
func (c *Camera) Eye() mgl32.Vec3 {
	return c.eye
}

// Forward returns the unit view direction.
func (c *Camera) Forward() mgl32.Vec3 {
	return c.n.Mul(-1)
}

// View returns the world-to-camera matrix.
func (c *Camera) View() mgl32.Mat4 {
	return c.view
}

// Projection returns the projection matrix.
func (c *Camera) Projection() mgl32.Mat4 {
	return c.projection
}

// ViewProjection returns Projection * View.
func (c *Camera) ViewProjection() mgl32.Mat4 {
	return c.projection.Mul4(c.view)
}

func (c *Camera) updateView() {
	c.view = mgl32.Mat4FromRows(
		c.u.Vec4(-c.u.Dot(c.eye)),
		c.v.Vec4(-c.v.Dot(c.eye)),
		c.n.Vec4(-c.n.Dot(c.eye)),
		mgl32.Vec4{0, 0, 0, 1},
	)
}
