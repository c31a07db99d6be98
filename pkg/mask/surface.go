// Package mask はかくれんぼページのお絵描き入力を受け付けます。
// ドラッグの始点と終点から楕円マスクを組み立てるだけで、描画そのものは
// 呼び出し側（画面側）の責務です。
package mask

import (
	"fmt"

	"github.com/shouni/gemini-storybook-kit/pkg/domain"
	"github.com/shouni/gemini-storybook-kit/pkg/imgutil"
)

// Ellipse はプレビュー描画用の楕円ジオメトリです。座標はサーフェス座標系です。
type Ellipse struct {
	CenterX float64
	CenterY float64
	RadiusX float64
	RadiusY float64
}

// Surface は1回のドラッグを追跡する状態機械です。Begin で錨を置き、
// Move が終端を更新し、End で白楕円マスクを確定します。
// 面積ゼロのドラッグ（クリックや一直線）は何も出力しません。
type Surface struct {
	width  int
	height int

	dragging bool
	anchorX  int
	anchorY  int
	lastX    int
	lastY    int
}

// NewSurface はシーン画像と同じ解像度の入力サーフェスを作ります。
func NewSurface(width, height int) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid surface size: %dx%d", width, height)
	}
	return &Surface{width: width, height: height}, nil
}

// NewSurfaceForImage はシーン画像の実寸からサーフェスを作ります。
func NewSurfaceForImage(scene domain.Image) (*Surface, error) {
	w, h, err := imgutil.DecodeBounds(scene.Data)
	if err != nil {
		return nil, fmt.Errorf("シーン画像の寸法を取得できません: %w", err)
	}
	return NewSurface(w, h)
}

// Begin はドラッグを開始します。進行中のドラッグは破棄されます。
func (s *Surface) Begin(x, y int) {
	x, y = s.clamp(x, y)
	s.dragging = true
	s.anchorX, s.anchorY = x, y
	s.lastX, s.lastY = x, y
}

// Move はドラッグの終端を更新します。ドラッグ中でなければ何もしません。
func (s *Surface) Move(x, y int) {
	if !s.dragging {
		return
	}
	s.lastX, s.lastY = s.clamp(x, y)
}

// Dragging はドラッグ追跡中かどうかを返します。
func (s *Surface) Dragging() bool { return s.dragging }

// Preview は現時点の楕円ジオメトリを返します。ドラッグ中でなければ false です。
func (s *Surface) Preview() (Ellipse, bool) {
	if !s.dragging {
		return Ellipse{}, false
	}
	return Ellipse{
		CenterX: float64(s.anchorX+s.lastX) / 2,
		CenterY: float64(s.anchorY+s.lastY) / 2,
		RadiusX: absInt(s.lastX-s.anchorX) / 2,
		RadiusY: absInt(s.lastY-s.anchorY) / 2,
	}, true
}

// End はドラッグを終了し、確定したマスク画像を返します。
// 楕円の面積がゼロ（クリックや水平・垂直の一直線）の場合は ok=false を返し、
// マスクは出力しません。どちらの場合もサーフェスは次のドラッグを受け付けます。
func (s *Surface) End() (domain.Image, bool, error) {
	if !s.dragging {
		return domain.Image{}, false, nil
	}
	s.dragging = false

	if s.anchorX == s.lastX || s.anchorY == s.lastY {
		return domain.Image{}, false, nil
	}

	data, err := imgutil.RasterizeEllipseMask(s.width, s.height, s.anchorX, s.anchorY, s.lastX, s.lastY)
	if err != nil {
		return domain.Image{}, false, fmt.Errorf("マスクの生成に失敗しました: %w", err)
	}
	return domain.Image{Data: data, MimeType: domain.MimePNG}, true, nil
}

// clamp は座標をサーフェスの内側へ丸めます。ドラッグが画面外へ
// はみ出しても楕円は必ず画像内に収まります。
func (s *Surface) clamp(x, y int) (int, int) {
	if x < 0 {
		x = 0
	} else if x >= s.width {
		x = s.width - 1
	}
	if y < 0 {
		y = 0
	} else if y >= s.height {
		y = s.height - 1
	}
	return x, y
}

func absInt(v int) float64 {
	if v < 0 {
		v = -v
	}
	return float64(v)
}
