package vbsp

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestEncodeRGBExp32Black(t *testing.T) {
	if got, want := EncodeRGBExp32([3]uint8{0, 0, 0}), (ColorRGBExp32{}); got != want {
		t.Errorf("black: got %v, want %v", got, want)
	}
}

func TestEncodeRGBExp32(t *testing.T) {
	for r := 0; r < 256; r += 5 {
		for g := 0; g < 256; g += 17 {
			for _, b := range []int{0, 1, 128, 255} {
				in := [3]uint8{uint8(r), uint8(g), uint8(b)}
				c := EncodeRGBExp32(in)
				if c == (ColorRGBExp32{}) {
					if r+g+b != 0 {
						t.Errorf("%v: encoded as black", in)
					}
					continue
				}
				hi := c.R
				if c.G > hi {
					hi = c.G
				}
				if c.B > hi {
					hi = c.B
				}
				if hi < 128 {
					t.Errorf("%v: largest channel %d, want >= 128", in, hi)
				}
				step := math32.Pow(2, float32(c.Exponent))
				got := c.Linear()
				for i := range in {
					want := gammaToLinear(in[i]) * 4
					if d := math32.Abs(got[i] - want); d > step*1.01 {
						t.Errorf("%v channel %d: got %v, want %v (exp %d)", in, i, got[i], want, c.Exponent)
					}
				}
			}
		}
	}
}

func TestEncodeRGBExp32White(t *testing.T) {
	c := EncodeRGBExp32([3]uint8{255, 255, 255})
	// 255*4 = 1020 = 255 * 2^2.
	if c.Exponent != 2 || c.R != 255 || c.G != 255 || c.B != 255 {
		t.Errorf("white: got %v, want {255 255 255 2}", c)
	}
}
