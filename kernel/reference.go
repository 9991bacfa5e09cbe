package kernel

import "math"

// EscapeRadiusSquared is the squared magnitude beyond which a point is
// considered to diverge.
const EscapeRadiusSquared = 4.0

// Interior is the color of points that never escape.
var Interior = [4]uint8{0, 0, 0, 255}

// Point maps pixel (x, y) of a width x height image onto the complex plane.
func Point(x, y, width, height int, p Position) (float32, float32) {
	halfW := float32(width) * 0.5
	halfH := float32(height) * 0.5
	cx := p.CenterX + (float32(x)-halfW)*p.Scale
	cy := p.CenterY + (float32(y)-halfH)*p.Scale
	return cx, cy
}

// Escape iterates z = z*z + c from z = 0 and returns the number of
// iterations completed before |z| exceeded the escape radius.
// A result equal to limit means the point stayed bounded.
func Escape(cx, cy float32, limit uint32) uint32 {
	var zx, zy float32
	var n uint32
	for n < limit {
		zx, zy = zx*zx-zy*zy+cx, 2*zx*zy+cy
		if zx*zx+zy*zy > EscapeRadiusSquared {
			break
		}
		n++
	}
	return n
}

// Color maps an escape count to RGBA. Escaped points brighten monotonically
// with n and never equal Interior.
func Color(n, limit uint32) [4]uint8 {
	if n >= limit {
		return Interior
	}
	return palette(level(n, limit))
}

// exactLimit is the largest bound for which n*255 fits in 32 bits.
const exactLimit = math.MaxUint32 / 255

// level scales n < limit into [0, 255) without overflowing 32 bits.
// Bounds above exactLimit divide n by ceil(limit/255) instead.
func level(n, limit uint32) uint32 {
	if limit <= exactLimit {
		return n * 255 / limit
	}
	return n / ((limit-1)/255 + 1)
}

func palette(level uint32) [4]uint8 {
	return [4]uint8{
		uint8(level),               //nolint:gosec // level <= 255
		uint8(level * level / 255), //nolint:gosec // <= 255
		uint8(64 + level*191/255),  //nolint:gosec // <= 255
		255,
	}
}

// Pack packs an RGBA color into the kernel's texel format.
func Pack(c [4]uint8) uint32 {
	return uint32(c[0]) | uint32(c[1])<<8 | uint32(c[2])<<16 | uint32(c[3])<<24
}

// Shade evaluates the kernel for one pixel.
func Shade(x, y, width, height int, p Position, limit uint32) [4]uint8 {
	cx, cy := Point(x, y, width, height, p)
	return Color(Escape(cx, cy, limit), limit)
}
