// Package runner は1冊分のセッションを段取りします。写真の取り込みから
// 画風変換、冒頭シーンの合成、物語エンジンの起動までを順に進めます。
package runner

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/shouni/gemini-storybook-kit/pkg/compositor"
	"github.com/shouni/gemini-storybook-kit/pkg/domain"
	"github.com/shouni/gemini-storybook-kit/pkg/story"
)

// Compositor はセッションが利用する合成操作のインターフェースです。
// 前段フェーズ専用の2操作に加えて、本編のエンジンへ引き渡す操作一式を含みます。
type Compositor interface {
	StyleConvert(ctx context.Context, in compositor.StyleConvertInput) (domain.Image, error)
	BlendIntoScene(ctx context.Context, in compositor.BlendIntoSceneInput) (domain.Image, error)
	story.SceneCompositor
}

// AssetSource はテーマアセットとアップロード写真の取得インターフェースです。
type AssetSource interface {
	ResolvePair(ctx context.Context, urlA, urlB string) (domain.Image, domain.Image, error)
	LoadUploadPair(ctx context.Context, userPath, petPath string) (domain.Image, domain.Image, error)
}

// Runner はセッションを生成するファクトリです。
type Runner struct {
	comp   Compositor
	assets AssetSource
}

// NewRunner は依存関係を注入して Runner を初期化します。
func NewRunner(comp Compositor, assets AssetSource) (*Runner, error) {
	if comp == nil {
		return nil, fmt.Errorf("comp (Compositor) is required")
	}
	if assets == nil {
		return nil, fmt.Errorf("assets (AssetSource) is required")
	}
	return &Runner{comp: comp, assets: assets}, nil
}

// Session は1冊分の進行状態です。前のセッションの状態は一切引き継ぎません。
// やり直したいときは NewSession で作り直してください。
type Session struct {
	runner *Runner
	theme  domain.Theme

	userRef      domain.Image
	petRef       domain.Image
	initialScene domain.Image
}

// NewSession は選択されたテーマで新しいセッションを始めます。
func (r *Runner) NewSession(theme domain.Theme) (*Session, error) {
	if len(theme.Scenes) == 0 {
		return nil, fmt.Errorf("theme %q has no scenes", theme.ID)
	}
	return &Session{runner: r, theme: theme}, nil
}

// Theme はセッションのテーマを返します。
func (s *Session) Theme() domain.Theme { return s.theme }

// CharacterRefs は画風変換済みの参照ペアを返します。未変換なら false です。
func (s *Session) CharacterRefs() (user, pet domain.Image, ok bool) {
	if s.userRef.IsZero() || s.petRef.IsZero() {
		return domain.Image{}, domain.Image{}, false
	}
	return s.userRef, s.petRef, true
}

// ConvertCharacters は人物・ペットの写真を読み込み、テーマのスタイル参照と
// 突き合わせて並行で画風変換します。成功した結果が以後の全合成の
// 確定参照になります。
func (s *Session) ConvertCharacters(ctx context.Context, userPhotoPath, petPhotoPath string) error {
	slog.InfoContext(ctx, "キャラクターの画風変換を開始します", "theme", s.theme.ID)

	userPhoto, petPhoto, err := s.runner.assets.LoadUploadPair(ctx, userPhotoPath, petPhotoPath)
	if err != nil {
		return fmt.Errorf("写真の読み込みに失敗しました: %w", err)
	}

	userStyleRef, petStyleRef, err := s.runner.assets.ResolvePair(ctx,
		s.theme.CharacterRefURL(), s.theme.PetRefURL())
	if err != nil {
		return fmt.Errorf("スタイル参照の取得に失敗しました: %w", err)
	}

	var userRef, petRef domain.Image
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		userRef, err = s.runner.comp.StyleConvert(gctx, compositor.StyleConvertInput{
			Source:   userPhoto,
			StyleRef: userStyleRef,
			Subject:  compositor.SubjectPerson,
		})
		return err
	})
	g.Go(func() error {
		var err error
		petRef, err = s.runner.comp.StyleConvert(gctx, compositor.StyleConvertInput{
			Source:   petPhoto,
			StyleRef: petStyleRef,
			Subject:  compositor.SubjectPet,
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("画風変換に失敗しました: %w", err)
	}

	s.userRef = userRef
	s.petRef = petRef
	return nil
}

// SetupScene は最初の背景へ両キャラクターを合成し、物語の1ページ目になる
// 冒頭シーンを用意します。ConvertCharacters の完了が前提です。
func (s *Session) SetupScene(ctx context.Context) error {
	if s.userRef.IsZero() || s.petRef.IsZero() {
		return fmt.Errorf("setup scene: %w", domain.ErrWrongStep)
	}
	slog.InfoContext(ctx, "冒頭シーンを合成します", "scene", s.theme.SceneURL(0))

	scene, poi, err := s.runner.assets.ResolvePair(ctx, s.theme.SceneURL(0), s.theme.POIURL(0))
	if err != nil {
		return fmt.Errorf("冒頭シーンの取得に失敗しました: %w", err)
	}

	blended, err := s.runner.comp.BlendIntoScene(ctx, compositor.BlendIntoSceneInput{
		User:  s.userRef,
		Pet:   s.petRef,
		Scene: scene,
		POI:   poi,
	})
	if err != nil {
		return fmt.Errorf("冒頭シーンの合成に失敗しました: %w", err)
	}

	s.initialScene = blended
	return nil
}

// NewStory は物語エンジンを起動し、冒頭シーンを1ページ目として確定します。
// SetupScene の完了が前提です。
func (s *Session) NewStory(ctx context.Context) (*story.Engine, error) {
	if s.initialScene.IsZero() {
		return nil, fmt.Errorf("new story: %w", domain.ErrWrongStep)
	}

	engine, err := story.NewEngine(s.runner.comp, s.runner.assets, s.theme,
		s.userRef, s.petRef, s.initialScene)
	if err != nil {
		return nil, fmt.Errorf("エンジンの初期化に失敗しました: %w", err)
	}
	if err := engine.Start(ctx); err != nil {
		return nil, err
	}
	return engine, nil
}
