package visualize

import "fmt"
import "image"
import "image/color"
import "image/png"
import "math"
import "os"

import "github.com/neurlang/hebbian/datasets"
import "gonum.org/v1/gonum/floats"
import "gonum.org/v1/gonum/mat"

// weightGrid tiles every row of w as an image of shape. Single channel
// weights use a blue-white-red colormap symmetric around zero.
func weightGrid(w mat.Matrix, shape datasets.Shape) (*image.RGBA, error) {
	return grid(w, shape, true)
}

// sampleGrid tiles every row of x, assumed in [0, 1], as an image of shape.
func sampleGrid(x mat.Matrix, shape datasets.Shape) (*image.RGBA, error) {
	return grid(x, shape, false)
}

func grid(m mat.Matrix, shape datasets.Shape, diverging bool) (*image.RGBA, error) {
	rows, cols := m.Dims()
	if cols != shape.Size() || shape.Size() == 0 {
		return nil, fmt.Errorf("cannot reshape %d features to %v", cols, shape)
	}
	side := int(math.Ceil(math.Sqrt(float64(rows))))
	if side == 0 {
		side = 1
	}
	across := (rows + side - 1) / side
	img := image.NewRGBA(image.Rect(0, 0, side*(shape.W+1)+1, across*(shape.H+1)+1))

	scale := 1.0
	if diverging {
		data := mat.DenseCopyOf(m).RawMatrix().Data
		scale = math.Max(floats.Max(data), -floats.Min(data))
		if scale == 0 {
			scale = 1
		}
	}
	row := make([]float64, cols)
	for n := 0; n < rows; n++ {
		mat.Row(row, n, m)
		ox := (n%side)*(shape.W+1) + 1
		oy := (n/side)*(shape.H+1) + 1
		for y := 0; y < shape.H; y++ {
			for x := 0; x < shape.W; x++ {
				var px = row[(y*shape.W+x)*shape.C:][:shape.C]
				img.Set(ox+x, oy+y, pixel(px, scale, diverging))
			}
		}
	}
	return img, nil
}

func pixel(px []float64, scale float64, diverging bool) color.RGBA {
	if len(px) == 3 {
		var c [3]uint8
		for i, v := range px {
			if diverging {
				v = (v/scale + 1) / 2
			}
			c[i] = channel(v)
		}
		return color.RGBA{c[0], c[1], c[2], 255}
	}
	v := px[0]
	if !diverging {
		c := channel(v)
		return color.RGBA{c, c, c, 255}
	}
	v /= scale
	if v >= 0 {
		c := channel(1 - v)
		return color.RGBA{255, c, c, 255}
	}
	c := channel(1 + v)
	return color.RGBA{c, c, 255, 255}
}

func channel(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

func writePng(name string, img image.Image) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	err = png.Encode(f, img)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
