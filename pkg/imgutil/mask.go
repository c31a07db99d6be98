package imgutil

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
)

// RasterizeEllipseMask は黒地に白楕円のマスク画像をPNG形式で生成します。
// 楕円はドラッグの始点・終点を対角とする矩形の内接楕円です。
func RasterizeEllipseMask(width, height, x0, y0, x1, y1 int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid mask size: %dx%d", width, height)
	}

	// 中心と半径。矩形が退化していても 0 除算にならないようにします。
	cx := float64(x0+x1) / 2
	cy := float64(y0+y1) / 2
	rx := absFloat(float64(x1-x0)) / 2
	ry := absFloat(float64(y1-y0)) / 2
	if rx == 0 || ry == 0 {
		return nil, fmt.Errorf("degenerate ellipse: %g x %g", rx, ry)
	}

	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		dy := (float64(y) - cy) / ry
		for x := 0; x < width; x++ {
			dx := (float64(x) - cx) / rx
			if dx*dx+dy*dy <= 1 {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
