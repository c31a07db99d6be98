package mask

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/gemini-storybook-kit/pkg/domain"
)

func TestNewSurface(t *testing.T) {
	t.Run("Failure/ShouldRejectInvalidSize", func(t *testing.T) {
		_, err := NewSurface(0, 100)
		assert.Error(t, err)
		_, err = NewSurface(100, -1)
		assert.Error(t, err)
	})

	t.Run("Success/ShouldMatchSceneImageResolution", func(t *testing.T) {
		buf := new(bytes.Buffer)
		require.NoError(t, png.Encode(buf, image.NewRGBA(image.Rect(0, 0, 120, 90))))
		scene := domain.Image{Data: buf.Bytes(), MimeType: domain.MimePNG}

		s, err := NewSurfaceForImage(scene)
		require.NoError(t, err)

		s.Begin(10, 10)
		s.Move(110, 80)
		m, ok, err := s.End()
		require.NoError(t, err)
		require.True(t, ok)

		w, h := decodeSize(t, m.Data)
		assert.Equal(t, 120, w)
		assert.Equal(t, 90, h)
	})

	t.Run("Failure/ShouldRejectNonImageScene", func(t *testing.T) {
		_, err := NewSurfaceForImage(domain.Image{Data: []byte("junk"), MimeType: domain.MimePNG})
		assert.Error(t, err)
	})
}

func TestSurface_Drag(t *testing.T) {
	t.Run("Success/ShouldEmitPNGMaskForRealDrag", func(t *testing.T) {
		s, err := NewSurface(200, 150)
		require.NoError(t, err)

		s.Begin(40, 30)
		s.Move(80, 60)
		s.Move(160, 120)

		m, ok, err := s.End()
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, domain.MimePNG, m.MimeType)
		assert.False(t, m.IsZero())
		assert.False(t, s.Dragging())
	})

	t.Run("Success/ZeroAreaDragShouldEmitNothing", func(t *testing.T) {
		s, err := NewSurface(200, 150)
		require.NoError(t, err)

		// ただのクリック
		s.Begin(50, 50)
		m, ok, err := s.End()
		require.NoError(t, err)
		assert.False(t, ok)
		assert.True(t, m.IsZero())

		// 水平の一直線
		s.Begin(10, 40)
		s.Move(120, 40)
		_, ok, err = s.End()
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Success/EndWithoutBeginShouldBeNoop", func(t *testing.T) {
		s, err := NewSurface(100, 100)
		require.NoError(t, err)

		m, ok, err := s.End()
		require.NoError(t, err)
		assert.False(t, ok)
		assert.True(t, m.IsZero())
	})

	t.Run("Success/MoveWithoutBeginShouldBeIgnored", func(t *testing.T) {
		s, err := NewSurface(100, 100)
		require.NoError(t, err)

		s.Move(30, 30)
		assert.False(t, s.Dragging())
		_, ok, _ := s.End()
		assert.False(t, ok)
	})

	t.Run("Success/NewBeginShouldDiscardPreviousDrag", func(t *testing.T) {
		s, err := NewSurface(100, 100)
		require.NoError(t, err)

		s.Begin(5, 5)
		s.Move(90, 90)
		s.Begin(20, 20) // 前のドラッグは破棄される

		ellipse, ok := s.Preview()
		require.True(t, ok)
		assert.Equal(t, float64(20), ellipse.CenterX)
		assert.Equal(t, float64(0), ellipse.RadiusX)
	})

	t.Run("Success/CoordinatesShouldClampToSurface", func(t *testing.T) {
		s, err := NewSurface(100, 80)
		require.NoError(t, err)

		s.Begin(-50, -50)
		s.Move(500, 500)
		m, ok, err := s.End()
		require.NoError(t, err)
		require.True(t, ok)

		w, h := decodeSize(t, m.Data)
		assert.Equal(t, 100, w)
		assert.Equal(t, 80, h)
	})

	t.Run("Success/SurfaceShouldBeReusableAfterEnd", func(t *testing.T) {
		s, err := NewSurface(100, 100)
		require.NoError(t, err)

		s.Begin(10, 10)
		s.Move(90, 90)
		_, ok, err := s.End()
		require.NoError(t, err)
		require.True(t, ok)

		s.Begin(20, 20)
		s.Move(60, 70)
		_, ok, err = s.End()
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestSurface_Preview(t *testing.T) {
	t.Run("Success/ShouldTrackBoundingEllipse", func(t *testing.T) {
		s, err := NewSurface(200, 200)
		require.NoError(t, err)

		_, ok := s.Preview()
		assert.False(t, ok, "ドラッグ前はプレビューなし")

		s.Begin(20, 40)
		s.Move(100, 120)

		ellipse, ok := s.Preview()
		require.True(t, ok)
		assert.Equal(t, float64(60), ellipse.CenterX)
		assert.Equal(t, float64(80), ellipse.CenterY)
		assert.Equal(t, float64(40), ellipse.RadiusX)
		assert.Equal(t, float64(40), ellipse.RadiusY)
	})
}

func decodeSize(t *testing.T, data []byte) (int, int) {
	t.Helper()
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	return cfg.Width, cfg.Height
}
