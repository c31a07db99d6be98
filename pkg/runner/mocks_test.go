package runner

import (
	"context"
	"fmt"

	"github.com/shouni/gemini-storybook-kit/pkg/compositor"
	"github.com/shouni/gemini-storybook-kit/pkg/domain"
)

func stubImage(tag string) domain.Image {
	return domain.Image{Data: []byte(tag), MimeType: domain.MimePNG}
}

// mockCompositor は Compositor のテスト用モックなのだ。前段フェーズの
// 2操作だけ差し替え可能にして、本編の操作は固定画像で流します。
type mockCompositor struct {
	styleFunc func(ctx context.Context, in compositor.StyleConvertInput) (domain.Image, error)
	blendFunc func(ctx context.Context, in compositor.BlendIntoSceneInput) (domain.Image, error)
}

func (m *mockCompositor) StyleConvert(ctx context.Context, in compositor.StyleConvertInput) (domain.Image, error) {
	if m.styleFunc != nil {
		return m.styleFunc(ctx, in)
	}
	return stubImage("styled_" + string(in.Subject)), nil
}

func (m *mockCompositor) BlendIntoScene(ctx context.Context, in compositor.BlendIntoSceneInput) (domain.Image, error) {
	if m.blendFunc != nil {
		return m.blendFunc(ctx, in)
	}
	return stubImage("blended"), nil
}

func (m *mockCompositor) PlainEdit(ctx context.Context, in compositor.PlainEditInput) (domain.Image, error) {
	return stubImage("plain_edit"), nil
}

func (m *mockCompositor) TransitionWithPOI(ctx context.Context, in compositor.TransitionInput) (domain.Image, error) {
	return stubImage("transition_with_poi"), nil
}

func (m *mockCompositor) TransitionAndEdit(ctx context.Context, in compositor.TransitionInput) (domain.Image, error) {
	return stubImage("transition_and_edit"), nil
}

func (m *mockCompositor) DressUpPlacement(ctx context.Context, in compositor.DressUpInput) (domain.Image, error) {
	return stubImage("dress_up_placement"), nil
}

func (m *mockCompositor) RevealInMask(ctx context.Context, in compositor.RevealInput) (domain.Image, error) {
	return stubImage("reveal_in_mask"), nil
}

func (m *mockCompositor) FigureRender(ctx context.Context, in compositor.FigureInput) (domain.Image, error) {
	return stubImage("figure_render"), nil
}

// mockAssets は AssetSource のテスト用モックなのだ。
type mockAssets struct {
	resolveCalls []string
	uploadCalls  []string

	resolveFunc func(ctx context.Context, urlA, urlB string) (domain.Image, domain.Image, error)
	uploadFunc  func(ctx context.Context, userPath, petPath string) (domain.Image, domain.Image, error)
}

func (m *mockAssets) ResolvePair(ctx context.Context, urlA, urlB string) (domain.Image, domain.Image, error) {
	m.resolveCalls = append(m.resolveCalls, fmt.Sprintf("%s|%s", urlA, urlB))
	if m.resolveFunc != nil {
		return m.resolveFunc(ctx, urlA, urlB)
	}
	return stubImage("asset_a"), stubImage("asset_b"), nil
}

func (m *mockAssets) LoadUploadPair(ctx context.Context, userPath, petPath string) (domain.Image, domain.Image, error) {
	m.uploadCalls = append(m.uploadCalls, fmt.Sprintf("%s|%s", userPath, petPath))
	if m.uploadFunc != nil {
		return m.uploadFunc(ctx, userPath, petPath)
	}
	return stubImage("user_photo"), stubImage("pet_photo"), nil
}
