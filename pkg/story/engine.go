package story

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/shouni/gemini-storybook-kit/pkg/compositor"
	"github.com/shouni/gemini-storybook-kit/pkg/domain"
)

// SceneCompositor はエンジンが利用する合成操作のインターフェースです。
type SceneCompositor interface {
	PlainEdit(ctx context.Context, in compositor.PlainEditInput) (domain.Image, error)
	TransitionWithPOI(ctx context.Context, in compositor.TransitionInput) (domain.Image, error)
	TransitionAndEdit(ctx context.Context, in compositor.TransitionInput) (domain.Image, error)
	DressUpPlacement(ctx context.Context, in compositor.DressUpInput) (domain.Image, error)
	RevealInMask(ctx context.Context, in compositor.RevealInput) (domain.Image, error)
	FigureRender(ctx context.Context, in compositor.FigureInput) (domain.Image, error)
}

// AssetResolver はテーマアセットを取得するインターフェースです。
type AssetResolver interface {
	ResolvePair(ctx context.Context, urlA, urlB string) (domain.Image, domain.Image, error)
}

// Step は物語の進行位置を表す明示的なステップです。ページ数と分岐フラグから
// 一意に導出され、不正な操作（例: 3ページ目以外での服装選択）を型で弾きます。
type Step int

const (
	StepStart Step = iota
	StepWeatherChoice
	StepClothingChoice
	StepWalkOutside
	StepTransition
	StepHidePet
	StepGoodnight
	StepKeepsake
	StepFinished
)

// String は Step のログ・デバッグ用表記です。
func (s Step) String() string {
	switch s {
	case StepStart:
		return "start"
	case StepWeatherChoice:
		return "weather_choice"
	case StepClothingChoice:
		return "clothing_choice"
	case StepWalkOutside:
		return "walk_outside"
	case StepTransition:
		return "transition"
	case StepHidePet:
		return "hide_pet"
	case StepGoodnight:
		return "goodnight"
	case StepKeepsake:
		return "keepsake"
	case StepFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// storyLength は台本の総ページ数です。
const storyLength = 10

// Engine は物語進行の状態機械です。ページ列・閲覧位置・分岐選択・
// シーンカーソルを1セッションの間だけ専有し、リセット時は丸ごと破棄します。
//
// 生成ステップは同時に1つだけ実行する前提です（呼び出し側が実行中の
// 再トリガーを抑止します）。ステップが失敗した場合、ページ列・カーソル・
// 閲覧位置は一切変化しないため、同じ操作をそのまま再試行できます。
type Engine struct {
	comp   SceneCompositor
	assets AssetResolver

	theme        domain.Theme
	userRef      domain.Image
	petRef       domain.Image
	initialScene domain.Image

	pages       []domain.StoryPage
	position    int
	sceneCursor int
	weather     domain.Weather
	clothing    *domain.ClothingOption
}

// NewEngine は依存関係と事前合成済みの冒頭シーンを受け取って Engine を初期化します。
// シーンカーソルは1から始まります。先頭のシーンは冒頭合成で消費済みだからです。
func NewEngine(comp SceneCompositor, assets AssetResolver, theme domain.Theme, userRef, petRef, initialScene domain.Image) (*Engine, error) {
	if comp == nil {
		return nil, fmt.Errorf("comp (SceneCompositor) is required")
	}
	if assets == nil {
		return nil, fmt.Errorf("assets (AssetResolver) is required")
	}
	if len(theme.Scenes) == 0 {
		return nil, fmt.Errorf("theme has no scenes")
	}
	if userRef.IsZero() || petRef.IsZero() || initialScene.IsZero() {
		return nil, fmt.Errorf("character references and initial scene are required")
	}

	return &Engine{
		comp:         comp,
		assets:       assets,
		theme:        theme,
		userRef:      userRef,
		petRef:       petRef,
		initialScene: initialScene,
		sceneCursor:  1,
	}, nil
}

// Step は現在のページ数と分岐フラグから進行ステップを導出します。
func (e *Engine) Step() Step {
	switch n := len(e.pages); {
	case n == 0:
		return StepStart
	case n == 1:
		return StepWeatherChoice
	case n == 3:
		return StepClothingChoice
	case n == 4:
		return StepWalkOutside
	case n == 6:
		return StepHidePet
	case n == 8:
		return StepGoodnight
	case n == 9:
		return StepKeepsake
	case n >= storyLength:
		return StepFinished
	default:
		return StepTransition
	}
}

// Start は冒頭シーンを1ページ目として確定します。生成は行いません。
func (e *Engine) Start(ctx context.Context) error {
	if e.Step() != StepStart {
		return fmt.Errorf("start: %w", domain.ErrWrongStep)
	}

	e.appendPages(domain.StoryPage{
		ID:    uuid.NewString(),
		Text:  textFirstPage,
		Image: e.initialScene,
	})
	slog.InfoContext(ctx, "物語を開始しました", "pages", len(e.pages))
	return nil
}

// ChooseWeather は天気分岐を確定し、天気ページと着せ替え部屋ページの
// 2枚をまとめて追加します。途中で失敗した場合はどちらのページも追加されません。
func (e *Engine) ChooseWeather(ctx context.Context, weather domain.Weather) error {
	if e.Step() != StepWeatherChoice {
		return fmt.Errorf("choose weather: %w", domain.ErrWrongStep)
	}
	weatherPrompt, ok := weatherPrompts[weather]
	if !ok {
		return fmt.Errorf("choose weather: 未知の天気です: %q", weather)
	}
	if err := e.requireScene(); err != nil {
		return fmt.Errorf("choose weather: %w", err)
	}

	// 選択フラグはステップ失敗後も保持します。再試行時は同じ選択を引き継ぎ、
	// 選び直しは同じステップに留まっている間だけ可能です。
	e.weather = weather
	slog.InfoContext(ctx, "天気を選択しました", "weather", weather)

	// ページ2: 現在のシーンへ天気を適用
	weatherImage, err := e.comp.PlainEdit(ctx, compositor.PlainEditInput{
		Target:      e.pages[0].Image,
		Instruction: joinClauses(weatherPrompt, preservePoseClause),
		Refs:        e.refs(),
	})
	if err != nil {
		return err
	}

	// ページ3: 着せ替え部屋の背景を取得し、天気を合わせてから置き直す
	scene, poi, err := e.resolveScene(ctx)
	if err != nil {
		return err
	}
	weatherScene, err := e.comp.PlainEdit(ctx, compositor.PlainEditInput{
		Target:      scene,
		Instruction: weatherPrompt,
	})
	if err != nil {
		return err
	}
	dressImage, err := e.comp.DressUpPlacement(ctx, compositor.DressUpInput{
		User:  e.userRef,
		Pet:   e.petRef,
		Scene: weatherScene,
		POI:   poi,
	})
	if err != nil {
		return err
	}

	e.appendPages(
		domain.StoryPage{ID: uuid.NewString(), Text: weatherPageText(weather), Image: weatherImage},
		domain.StoryPage{ID: uuid.NewString(), Text: textDressUp, Image: dressImage},
	)
	e.sceneCursor++
	return nil
}

// ChooseClothing は服装分岐を確定し、着せ替え後のページを追加します。
// 背景は消費しません。
func (e *Engine) ChooseClothing(ctx context.Context, option domain.ClothingOption) error {
	if e.Step() != StepClothingChoice {
		return fmt.Errorf("choose clothing: %w", domain.ErrWrongStep)
	}
	if e.weather == "" {
		return fmt.Errorf("choose clothing: 天気が未選択です: %w", domain.ErrWrongStep)
	}

	e.clothing = &option
	slog.InfoContext(ctx, "服装を選択しました", "label", option.Label)

	newImage, err := e.comp.PlainEdit(ctx, compositor.PlainEditInput{
		Target:      e.lastImage(),
		Instruction: option.Prompt,
		Refs:        e.refs(),
	})
	if err != nil {
		return err
	}

	e.appendPages(domain.StoryPage{ID: uuid.NewString(), Text: textReadyToGo, Image: newImage})
	return nil
}

// Continue は分岐選択を要しないステップを1つ進めます。
func (e *Engine) Continue(ctx context.Context) error {
	step := e.Step()
	slog.InfoContext(ctx, "物語を進行します", "step", step.String(), "pages", len(e.pages))

	switch step {
	case StepWalkOutside, StepTransition:
		return e.continueTransition(ctx, step)
	case StepHidePet:
		return e.continueHidePet(ctx)
	case StepGoodnight:
		return e.continueGoodnight(ctx)
	case StepKeepsake:
		return e.continueKeepsake(ctx)
	case StepFinished:
		return fmt.Errorf("continue: %w", domain.ErrStoryFinished)
	default:
		return fmt.Errorf("continue: %w", domain.ErrWrongStep)
	}
}

// continueTransition は次の背景を導入してキャラクターを移動させます。
// ページ5だけは散歩ポーズの編集を伴います。
func (e *Engine) continueTransition(ctx context.Context, step Step) error {
	if err := e.requireScene(); err != nil {
		return fmt.Errorf("transition: %w", err)
	}

	scene, poi, err := e.resolveScene(ctx)
	if err != nil {
		return err
	}
	styledScene, err := e.comp.PlainEdit(ctx, compositor.PlainEditInput{
		Target:      scene,
		Instruction: backgroundRestylePrompt(e.weather, false),
	})
	if err != nil {
		return err
	}

	consistency := consistencyClause(e.weather, e.clothing)

	var image domain.Image
	var text string
	if step == StepWalkOutside {
		image, err = e.comp.TransitionAndEdit(ctx, compositor.TransitionInput{
			User:       e.userRef,
			Pet:        e.petRef,
			Prior:      e.lastImage(),
			Scene:      styledScene,
			POI:        poi,
			EditClause: joinClauses(consistency, walkingPoseClause),
		})
		text = textFunToday
	} else {
		image, err = e.comp.TransitionWithPOI(ctx, compositor.TransitionInput{
			User:       e.userRef,
			Pet:        e.petRef,
			Prior:      e.lastImage(),
			Scene:      styledScene,
			POI:        poi,
			EditClause: consistency,
		})
		if len(e.pages) == 5 {
			text = textPlayTime
		} else {
			text = defaultPageText(len(e.pages) + 1)
		}
	}
	if err != nil {
		return err
	}

	e.appendPages(domain.StoryPage{ID: uuid.NewString(), Text: text, Image: image})
	e.sceneCursor++
	return nil
}

// continueHidePet は背景を変えずにペットを隠し、かくれんぼを始めます。
func (e *Engine) continueHidePet(ctx context.Context) error {
	image, err := e.comp.PlainEdit(ctx, compositor.PlainEditInput{
		Target:      e.lastImage(),
		Instruction: joinClauses(consistencyClause(e.weather, e.clothing), hidePetClause),
		Refs:        e.refs(),
	})
	if err != nil {
		return err
	}

	e.appendPages(domain.StoryPage{ID: uuid.NewString(), Text: textHideAndSeek, Image: image})
	return nil
}

// RevealPet はプレイヤーの描いたマスクを使い、隠れたペットを出現させます。
// かくれんぼページが最終ページのときだけ有効です。
func (e *Engine) RevealPet(ctx context.Context, mask domain.Image) error {
	if len(e.pages) != 7 {
		return fmt.Errorf("reveal pet: %w", domain.ErrWrongStep)
	}
	if mask.IsZero() {
		return fmt.Errorf("reveal pet: マスク画像が空です")
	}

	image, err := e.comp.RevealInMask(ctx, compositor.RevealInput{
		Scene:  e.pages[6].Image,
		PetRef: e.petRef,
		Mask:   mask,
	})
	if err != nil {
		return err
	}

	e.appendPages(domain.StoryPage{ID: uuid.NewString(), Text: textPetFound, Image: image})
	return nil
}

// continueGoodnight は終端の背景（台本の最後のシーン）を夜に描き直し、
// パジャマ姿で締めくくります。カーソルは進めません。かくれんぼの正解演出を
// 飛ばした場合もここで必ず同じ背景に合流します。
func (e *Engine) continueGoodnight(ctx context.Context) error {
	last := len(e.theme.Scenes) - 1
	scene, poi, err := e.assets.ResolvePair(ctx, e.theme.SceneURL(last), e.theme.POIURL(last))
	if err != nil {
		return err
	}
	nightScene, err := e.comp.PlainEdit(ctx, compositor.PlainEditInput{
		Target:      scene,
		Instruction: backgroundRestylePrompt("", true),
	})
	if err != nil {
		return err
	}

	image, err := e.comp.TransitionAndEdit(ctx, compositor.TransitionInput{
		User:       e.userRef,
		Pet:        e.petRef,
		Prior:      e.lastImage(),
		Scene:      nightScene,
		POI:        poi,
		EditClause: joinClauses(consistencyClause(e.weather, e.clothing), pajamaEditClause),
	})
	if err != nil {
		return err
	}

	e.appendPages(domain.StoryPage{ID: uuid.NewString(), Text: textGoodnight, Image: image})
	return nil
}

// continueKeepsake はおやすみページからフィギュア風の記念品ページを生成します。
func (e *Engine) continueKeepsake(ctx context.Context) error {
	image, err := e.comp.FigureRender(ctx, compositor.FigureInput{
		Scene:   e.lastImage(),
		UserRef: e.userRef,
		PetRef:  e.petRef,
	})
	if err != nil {
		return err
	}

	e.appendPages(domain.StoryPage{ID: uuid.NewString(), Text: textKeepsake, Image: image})
	return nil
}

// --- 閲覧ナビゲーション（生成は発生しません） ---

// PrevPage は1ページ戻ります。先頭では何もしません。
func (e *Engine) PrevPage() {
	if e.position > 0 {
		e.position--
	}
}

// NextPage は生成済みの範囲で1ページ進みます。末尾では何もしません。
func (e *Engine) NextPage() {
	if e.position < len(e.pages)-1 {
		e.position++
	}
}

// CurrentPage は閲覧位置のページを返します。未開始なら false です。
func (e *Engine) CurrentPage() (domain.StoryPage, bool) {
	if len(e.pages) == 0 {
		return domain.StoryPage{}, false
	}
	return e.pages[e.position], true
}

// Position は現在の閲覧位置を返します。
func (e *Engine) Position() int { return e.position }

// Pages は生成済みページのコピーを返します。
func (e *Engine) Pages() []domain.StoryPage {
	pages := make([]domain.StoryPage, len(e.pages))
	copy(pages, e.pages)
	return pages
}

// SceneCursor は次に導入する背景のインデックスを返します。
func (e *Engine) SceneCursor() int { return e.sceneCursor }

// Weather は確定済みの天気を返します。未選択なら空文字です。
func (e *Engine) Weather() domain.Weather { return e.weather }

// Clothing は確定済みの服装を返します。未選択なら nil です。
func (e *Engine) Clothing() *domain.ClothingOption { return e.clothing }

// Finished は台本の最終ページまで生成し終えたかを返します。
func (e *Engine) Finished() bool { return len(e.pages) >= storyLength }

// --- 内部ヘルパー ---

// appendPages は成功したステップの成果をまとめて確定し、閲覧位置を
// 新しい最終ページへ進めます。状態変更はここ以外では行いません。
func (e *Engine) appendPages(pages ...domain.StoryPage) {
	e.pages = append(e.pages, pages...)
	e.position = len(e.pages) - 1
}

// requireScene は新しい背景を導入できるかを確認します。
func (e *Engine) requireScene() error {
	if e.sceneCursor >= len(e.theme.Scenes) {
		return fmt.Errorf("%w: cursor=%d scenes=%d", domain.ErrSceneExhausted, e.sceneCursor, len(e.theme.Scenes))
	}
	return nil
}

// resolveScene はカーソル位置の背景とPOIマップを並行取得します。
func (e *Engine) resolveScene(ctx context.Context) (domain.Image, domain.Image, error) {
	return e.assets.ResolvePair(ctx, e.theme.SceneURL(e.sceneCursor), e.theme.POIURL(e.sceneCursor))
}

// lastImage は最終ページの画像を返します。
func (e *Engine) lastImage() domain.Image {
	return e.pages[len(e.pages)-1].Image
}

// refs は同一性保持のための参照ペアを返します。
func (e *Engine) refs() *compositor.CharacterRefs {
	return &compositor.CharacterRefs{User: e.userRef, Pet: e.petRef}
}
