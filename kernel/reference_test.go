package kernel

import (
	"math"
	"testing"
)

func TestEscape(t *testing.T) {
	tests := []struct {
		name   string
		cx, cy float32
		limit  uint32
		want   uint32
	}{
		{"origin stays bounded", 0, 0, 100, 100},
		{"main cardioid", -0.5, 0, 350, 350},
		{"period two bulb", -1, 0, 350, 350},
		{"tip of the set", -2, 0, 50, 50},
		{"far outside escapes at once", 2, 2, 100, 0},
		{"corner of wide view", -2, -1.125, 350, 0},
		{"just outside the cardioid cusp", 0.3, 0, 100, 0},
		{"zero limit", 0, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Escape(tt.cx, tt.cy, tt.limit)
			if tt.name == "just outside the cardioid cusp" {
				// c = 0.3 escapes, but only after a number of iterations.
				if got == 0 || got >= tt.limit {
					t.Errorf("Escape(%v, %v, %d) = %d, want 0 < n < %d", tt.cx, tt.cy, tt.limit, got, tt.limit)
				}
				return
			}
			if got != tt.want {
				t.Errorf("Escape(%v, %v, %d) = %d, want %d", tt.cx, tt.cy, tt.limit, got, tt.want)
			}
		})
	}
}

func TestColorInteriorIsDistinct(t *testing.T) {
	const limit = 350
	if got := Color(limit, limit); got != Interior {
		t.Errorf("Color(limit) = %v, want %v", got, Interior)
	}
	for n := uint32(0); n < limit; n++ {
		if Color(n, limit) == Interior {
			t.Fatalf("Color(%d) equals the interior color", n)
		}
	}
}

func TestColorMonotonic(t *testing.T) {
	tests := []struct {
		name  string
		limit uint32
		step  uint32
	}{
		{"default bound", 350, 1},
		{"largest exact bound", exactLimit, 4099},
		{"above exact bound", 20000000, 4099},
		{"max bound", math.MaxUint32, 1 << 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := Color(0, tt.limit)
			for n := uint64(tt.step); n < uint64(tt.limit); n += uint64(tt.step) {
				c := Color(uint32(n), tt.limit)
				for ch := 0; ch < 3; ch++ {
					if c[ch] < prev[ch] {
						t.Fatalf("channel %d decreased from %d to %d at n=%d", ch, prev[ch], c[ch], n)
					}
				}
				if c[3] != 255 {
					t.Fatalf("alpha = %d at n=%d, want 255", c[3], n)
				}
				if c == Interior {
					t.Fatalf("Color(%d) equals the interior color", n)
				}
				prev = c
			}
		})
	}
}

func TestColorLargeBoundSeparatesClasses(t *testing.T) {
	const limit = 20000000
	early := Color(8, limit)
	late := Color(16900000, limit)
	if late == early {
		t.Errorf("Color(16900000) = %v, same class as Color(8)", late)
	}
	if late[0] < 200 {
		t.Errorf("Color(16900000) red = %d, want near the top of the ramp", late[0])
	}
	if got := Color(limit-1, limit); got[0] >= 255 || got == Interior {
		t.Errorf("Color(limit-1) = %v, want an escaped color below full level", got)
	}
}

func TestColorExactBoundsUnchanged(t *testing.T) {
	// Bounds that fit the exact formula keep n*255/limit levels.
	for _, n := range []uint32{0, 1, 100, 349} {
		want := uint8(n * 255 / 350)
		if got := Color(n, 350)[0]; got != want {
			t.Errorf("Color(%d, 350) red = %d, want %d", n, got, want)
		}
	}
}

func TestPack(t *testing.T) {
	got := Pack([4]uint8{0x11, 0x22, 0x33, 0x44})
	if got != 0x44332211 {
		t.Errorf("Pack() = %#x, want %#x", got, 0x44332211)
	}
}

func TestPointMapsCenterPixel(t *testing.T) {
	p := Position{CenterX: -0.5, CenterY: 0.25, Scale: 0.5}
	cx, cy := Point(50, 30, 100, 60, p)
	if cx != -0.5 || cy != 0.25 {
		t.Errorf("Point(center) = (%v, %v), want (-0.5, 0.25)", cx, cy)
	}
	cx, cy = Point(0, 0, 100, 60, p)
	if cx != -25.5 || cy != -14.75 {
		t.Errorf("Point(0, 0) = (%v, %v), want (-25.5, -14.75)", cx, cy)
	}
}

func TestShadeWideView(t *testing.T) {
	// 800x600 view of [-2, 1] x [-1.125, 1.125].
	p := Position{CenterX: -0.5, CenterY: 0, Scale: 3.0 / 800}
	corner := Shade(0, 0, 800, 600, p, 350)
	center := Shade(400, 300, 800, 600, p, 350)
	if center != Interior {
		t.Errorf("center pixel = %v, want interior %v", center, Interior)
	}
	if corner != Color(0, 350) {
		t.Errorf("corner pixel = %v, want first escape class %v", corner, Color(0, 350))
	}
}

func TestLayoutRoundTrip(t *testing.T) {
	buf := make([]byte, UniformBufferSize)

	p := Position{CenterX: -1.186592, CenterY: -0.1901211, Scale: 1 / 6290.223}
	p.Put(buf)
	if got := DecodePosition(buf); got != p {
		t.Errorf("DecodePosition() = %+v, want %+v", got, p)
	}

	Iterations(350).Put(buf)
	if got := DecodeIterations(buf); got != 350 {
		t.Errorf("DecodeIterations() = %d, want 350", got)
	}

	s := Surface{Width: 10, Height: 4, RowPitch: 64}
	s.Put(buf)
	if got := DecodeSurface(buf); got != s {
		t.Errorf("DecodeSurface() = %+v, want %+v", got, s)
	}
}
