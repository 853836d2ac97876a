// Package camera provides pan and zoom over the toroidal grid.
package camera

import "math"

// Camera maps grid cells to a viewport in screen pixels. At zoom 1 the
// whole grid fits the viewport; below 1 the wrapped grid repeats.
type Camera struct {
	// Position is the view center in grid cells
	X, Y float32

	Zoom float32

	// Viewport dimensions in pixels
	ViewportW, ViewportH float32

	// Grid dimensions in cells
	GridW, GridH float32

	MinZoom, MaxZoom float32
}

// New creates a camera centered on the grid that fits it to the viewport.
func New(viewportW, viewportH, gridW, gridH float32) *Camera {
	return &Camera{
		X:         gridW / 2,
		Y:         gridH / 2,
		Zoom:      1.0,
		ViewportW: viewportW,
		ViewportH: viewportH,
		GridW:     gridW,
		GridH:     gridH,
		MinZoom:   0.5,
		MaxZoom:   16.0,
	}
}

// Scale returns screen pixels per grid cell.
func (c *Camera) Scale() float32 {
	return min(c.ViewportW/c.GridW, c.ViewportH/c.GridH) * c.Zoom
}

// Source returns the visible area in grid cells. It may extend past the
// grid; textures sampled with repeat wrapping show the torus.
func (c *Camera) Source() (x, y, w, h float32) {
	s := c.Scale()
	w = c.ViewportW / s
	h = c.ViewportH / s
	return c.X - w/2, c.Y - h/2, w, h
}

// GridToScreen converts grid coordinates to viewport coordinates, taking
// the nearest wrapped copy of the point.
func (c *Camera) GridToScreen(gx, gy float32) (sx, sy float32) {
	s := c.Scale()
	dx := toroidalDelta(gx, c.X, c.GridW)
	dy := toroidalDelta(gy, c.Y, c.GridH)
	return c.ViewportW/2 + dx*s, c.ViewportH/2 + dy*s
}

// ScreenToGrid converts viewport coordinates to wrapped grid coordinates.
func (c *Camera) ScreenToGrid(sx, sy float32) (gx, gy float32) {
	s := c.Scale()
	dx := (sx - c.ViewportW/2) / s
	dy := (sy - c.ViewportH/2) / s
	return mod(c.X+dx, c.GridW), mod(c.Y+dy, c.GridH)
}

// Nearest returns the copy of (tx, ty) closest to (fx, fy) on the torus,
// so a stroke across the grid edge stays short.
func (c *Camera) Nearest(fx, fy, tx, ty float32) (float32, float32) {
	return fx + toroidalDelta(tx, fx, c.GridW), fy + toroidalDelta(ty, fy, c.GridH)
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// Pan moves the camera by the given delta in screen pixels.
func (c *Camera) Pan(dx, dy float32) {
	s := c.Scale()
	c.X = mod(c.X+dx/s, c.GridW)
	c.Y = mod(c.Y+dy/s, c.GridH)
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset returns the camera to the default position and zoom.
func (c *Camera) Reset() {
	c.X = c.GridW / 2
	c.Y = c.GridH / 2
	c.Zoom = 1.0
}

// toroidalDelta computes the shortest signed distance from 'from' to 'to'
// in a toroidal space of the given size.
func toroidalDelta(to, from, size float32) float32 {
	d := to - from
	if d > size/2 {
		d -= size
	} else if d < -size/2 {
		d += size
	}
	return d
}

// mod computes the positive modulo.
func mod(x, m float32) float32 {
	r := float32(math.Mod(float64(x), float64(m)))
	if r < 0 {
		r += m
	}
	return r
}

func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
