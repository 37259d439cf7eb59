package courtview

import "math"

// canvas is a braille micro-pixel buffer: each terminal cell holds a 2x4
// dot grid. Every cell also keeps the colour of the last dot drawn in it
// and an optional text rune that replaces the dots.
type canvas struct {
	w, h  int        // in cells
	m     [][]uint8  // per-cell 8-bit mask
	color [][]string // per-cell foreground
	text  [][]rune   // per-cell overlay, 0 when unset
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h}
	c.m = make([][]uint8, h)
	c.color = make([][]string, h)
	c.text = make([][]rune, h)
	for i := 0; i < h; i++ {
		c.m[i] = make([]uint8, w)
		c.color[i] = make([]string, w)
		c.text[i] = make([]rune, w)
	}
	return c
}

// microSize returns the canvas size in dots.
func (c *canvas) microSize() (int, int) { return c.w * 2, c.h * 4 }

var dotBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// setPixel sets a micro-pixel at micro coords (2x4 per cell)
func (c *canvas) setPixel(mx, my int, color string) {
	if mx < 0 || my < 0 {
		return
	}
	cx, cy := mx/2, my/4
	if cy >= c.h || cx >= c.w {
		return
	}
	c.m[cy][cx] |= dotBits[mx%2][my%4]
	if color != "" {
		c.color[cy][cx] = color
	}
}

// drawLine draws a line on the microgrid using Bresenham
func (c *canvas) drawLine(x0, y0, x1, y1 int, color string) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		c.setPixel(x0, y0, color)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// drawPolyline strokes pts given in dots. A non-empty dash pattern (also
// in dots) is walked continuously across vertices.
func (c *canvas) drawPolyline(pts [][2]float64, dash []float64, color string) {
	if len(dash) == 0 {
		for i := 1; i < len(pts); i++ {
			c.drawLine(iround(pts[i-1][0]), iround(pts[i-1][1]), iround(pts[i][0]), iround(pts[i][1]), color)
		}
		return
	}

	const step = 0.5
	idx, left, on := 0, dash[0], true
	for i := 1; i < len(pts); i++ {
		ax, ay := pts[i-1][0], pts[i-1][1]
		bx, by := pts[i][0], pts[i][1]
		seg := math.Hypot(bx-ax, by-ay)
		for d := 0.0; d < seg; d += step {
			if on {
				t := d / seg
				c.setPixel(iround(ax+(bx-ax)*t), iround(ay+(by-ay)*t), color)
			}
			left -= step
			if left <= 0 {
				idx = (idx + 1) % len(dash)
				left = dash[idx]
				on = !on
			}
		}
	}
}

// putText writes s into cells starting at cell (cx, cy).
func (c *canvas) putText(cx, cy int, s string, color string) {
	if cy < 0 || cy >= c.h {
		return
	}
	for _, r := range s {
		if cx >= 0 && cx < c.w {
			c.text[cy][cx] = r
			c.color[cy][cx] = color
		}
		cx++
	}
}

// cell returns what cell (x, y) displays and its colour.
func (c *canvas) cell(x, y int) (rune, string) {
	if r := c.text[y][x]; r != 0 {
		return r, c.color[y][x]
	}
	mask := c.m[y][x]
	if mask == 0 {
		return ' ', ""
	}
	return rune(0x2800 + int(mask)), c.color[y][x]
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func iround(f float64) int { return int(math.Round(f)) }
