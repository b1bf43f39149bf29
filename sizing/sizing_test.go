package sizing

import (
	"image"
	"image/color"
	"image/color/palette"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestImage(t *testing.T) {
	t.Parallel()

	r := image.Rect(0, 0, 10, 20) // 200 px
	ycc := image.NewYCbCr(r, image.YCbCrSubsampleRatio420)

	tests := []struct {
		name string
		img  image.Image
		want uint64
	}{
		{"nil", nil, 0},
		{"rgba", image.NewRGBA(r), 800},
		{"nrgba", image.NewNRGBA(r), 800},
		{"rgba64", image.NewRGBA64(r), 1600},
		{"gray", image.NewGray(r), 200},
		{"gray16", image.NewGray16(r), 400},
		{"alpha", image.NewAlpha(r), 200},
		{"cmyk", image.NewCMYK(r), 800},
		{"paletted", image.NewPaletted(r, palette.Plan9), 200 + 256*4},
		{"ycbcr", ycc, uint64(len(ycc.Y) + len(ycc.Cb) + len(ycc.Cr))},
		{"uniform", image.NewUniform(color.White), 4},
		{"empty rect", image.NewRGBA(image.Rect(0, 0, 0, 0)), 0},
		{"offset rect", image.NewGray(image.Rect(5, 5, 7, 8)), 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Image(tt.img))
		})
	}
}

func TestBytesAndUnit(t *testing.T) {
	t.Parallel()

	require.Equal(t, uint64(0), Bytes(nil))
	require.Equal(t, uint64(3), Bytes([]byte("abc")))
	require.Equal(t, uint64(1), Unit("anything"))
	require.Equal(t, uint64(1), Unit[[]byte](nil))
}
