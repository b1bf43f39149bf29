// Package sizing provides stock size functions for cache.Options.Size.
//
// Image reports the in-memory footprint of a decoded image.Image from its
// bounds and pixel layout; it never decodes or renders anything.
package sizing

import (
	"image"
)

// Image returns the number of bytes the decoded pixels of img occupy.
// A nil image costs 0.
func Image(img image.Image) uint64 {
	if img == nil {
		return 0
	}
	b := img.Bounds()
	px := uint64(b.Dx()) * uint64(b.Dy())

	switch m := img.(type) {
	case *image.RGBA, *image.NRGBA, *image.CMYK:
		return px * 4
	case *image.RGBA64, *image.NRGBA64:
		return px * 8
	case *image.Gray, *image.Alpha:
		return px
	case *image.Gray16, *image.Alpha16:
		return px * 2
	case *image.Paletted:
		return px + uint64(len(m.Palette))*4
	case *image.YCbCr:
		return uint64(len(m.Y) + len(m.Cb) + len(m.Cr))
	case *image.NYCbCrA:
		return uint64(len(m.Y) + len(m.Cb) + len(m.Cr) + len(m.A))
	case *image.Uniform:
		return 4
	default:
		// Unknown layouts are charged as 8-bit RGBA.
		return px * 4
	}
}

// Bytes charges a byte slice by its length, e.g. for encoded image blobs.
func Bytes(b []byte) uint64 { return uint64(len(b)) }

// Unit charges every value 1, turning MaxSize into a second count limit.
func Unit[V any](V) uint64 { return 1 }
