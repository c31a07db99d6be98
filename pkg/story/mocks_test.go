package story

import (
	"context"
	"fmt"

	"github.com/shouni/gemini-storybook-kit/pkg/compositor"
	"github.com/shouni/gemini-storybook-kit/pkg/domain"
)

// mockCompositor は SceneCompositor のテスト用モックなのだ。
// 呼び出された操作名を記録し、func フィールドが nil なら固定画像を返します。
type mockCompositor struct {
	calls []string

	plainEditFunc  func(ctx context.Context, in compositor.PlainEditInput) (domain.Image, error)
	transitionFunc func(ctx context.Context, in compositor.TransitionInput) (domain.Image, error)
	editFunc       func(ctx context.Context, in compositor.TransitionInput) (domain.Image, error)
	dressUpFunc    func(ctx context.Context, in compositor.DressUpInput) (domain.Image, error)
	revealFunc     func(ctx context.Context, in compositor.RevealInput) (domain.Image, error)
	figureFunc     func(ctx context.Context, in compositor.FigureInput) (domain.Image, error)
}

func stubImage(tag string) domain.Image {
	return domain.Image{Data: []byte(tag), MimeType: domain.MimePNG}
}

func (m *mockCompositor) PlainEdit(ctx context.Context, in compositor.PlainEditInput) (domain.Image, error) {
	m.calls = append(m.calls, "plain_edit")
	if m.plainEditFunc != nil {
		return m.plainEditFunc(ctx, in)
	}
	return stubImage("plain_edit"), nil
}

func (m *mockCompositor) TransitionWithPOI(ctx context.Context, in compositor.TransitionInput) (domain.Image, error) {
	m.calls = append(m.calls, "transition_with_poi")
	if m.transitionFunc != nil {
		return m.transitionFunc(ctx, in)
	}
	return stubImage("transition_with_poi"), nil
}

func (m *mockCompositor) TransitionAndEdit(ctx context.Context, in compositor.TransitionInput) (domain.Image, error) {
	m.calls = append(m.calls, "transition_and_edit")
	if m.editFunc != nil {
		return m.editFunc(ctx, in)
	}
	return stubImage("transition_and_edit"), nil
}

func (m *mockCompositor) DressUpPlacement(ctx context.Context, in compositor.DressUpInput) (domain.Image, error) {
	m.calls = append(m.calls, "dress_up_placement")
	if m.dressUpFunc != nil {
		return m.dressUpFunc(ctx, in)
	}
	return stubImage("dress_up_placement"), nil
}

func (m *mockCompositor) RevealInMask(ctx context.Context, in compositor.RevealInput) (domain.Image, error) {
	m.calls = append(m.calls, "reveal_in_mask")
	if m.revealFunc != nil {
		return m.revealFunc(ctx, in)
	}
	return stubImage("reveal_in_mask"), nil
}

func (m *mockCompositor) FigureRender(ctx context.Context, in compositor.FigureInput) (domain.Image, error) {
	m.calls = append(m.calls, "figure_render")
	if m.figureFunc != nil {
		return m.figureFunc(ctx, in)
	}
	return stubImage("figure_render"), nil
}

// mockResolver は AssetResolver のテスト用モックなのだ。
type mockResolver struct {
	calls       []string
	resolveFunc func(ctx context.Context, urlA, urlB string) (domain.Image, domain.Image, error)
}

func (m *mockResolver) ResolvePair(ctx context.Context, urlA, urlB string) (domain.Image, domain.Image, error) {
	m.calls = append(m.calls, fmt.Sprintf("%s|%s", urlA, urlB))
	if m.resolveFunc != nil {
		return m.resolveFunc(ctx, urlA, urlB)
	}
	return stubImage("scene"), stubImage("poi"), nil
}
