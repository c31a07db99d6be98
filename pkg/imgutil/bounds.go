package imgutil

import (
	"bytes"
	"image"
)

// DecodeBounds は画像データの幅と高さをデコードせずに返します。
func DecodeBounds(data []byte) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}
