package compositor

import (
	"context"
	"fmt"

	"github.com/shouni/gemini-storybook-kit/pkg/domain"
	"github.com/shouni/gemini-storybook-kit/pkg/gateway"
)

// Subject は画風変換の被写体種別です。
type Subject string

const (
	SubjectPerson Subject = "person"
	SubjectPet    Subject = "pet"
)

// Compositor は名前付き合成操作のカタログです。各操作は
// (1) 決まった順序の画像リスト、(2) 固定プロンプトテンプレート、
// (3) Gateway への画像要求、の3点をひとまとめに符号化します。
// 画像の順序はバックエンドにとって意味を持つため、入力は位置引数ではなく
// 型付き構造体で受け取り、並び替えをコンパイル時に封じます。
type Compositor struct {
	exec gateway.Executor
}

// New は Gateway 実装を注入して Compositor を初期化します。
func New(exec gateway.Executor) (*Compositor, error) {
	if exec == nil {
		return nil, fmt.Errorf("exec (gateway.Executor) is required")
	}
	return &Compositor{exec: exec}, nil
}

// CharacterRefs は同一性保持のための確定参照画像ペアです。
type CharacterRefs struct {
	User domain.Image
	Pet  domain.Image
}

// StyleConvertInput は画風変換の入力です。順序: 変換対象 → スタイル参照。
type StyleConvertInput struct {
	Source   domain.Image
	StyleRef domain.Image
	Subject  Subject
}

// StyleConvert はアップロード写真の被写体をテーマの画風で描き直します。
func (c *Compositor) StyleConvert(ctx context.Context, in StyleConvertInput) (domain.Image, error) {
	return c.executeImage(ctx, gateway.Request{
		Operation:   "style_convert",
		Images:      []domain.Image{in.Source, in.StyleRef},
		Instruction: buildStyleConvertPrompt(in.Subject),
	})
}

// BlendIntoSceneInput は冒頭シーン合成の入力です。
// 順序: 人物 → ペット → 背景 → POIマップ。
type BlendIntoSceneInput struct {
	User  domain.Image
	Pet   domain.Image
	Scene domain.Image
	POI   domain.Image
}

// BlendIntoScene は両キャラクターを最初の背景へ合成します。物語開始前の
// 1回だけ呼ばれる操作です。
func (c *Compositor) BlendIntoScene(ctx context.Context, in BlendIntoSceneInput) (domain.Image, error) {
	return c.executeImage(ctx, gateway.Request{
		Operation:   "blend_into_scene",
		Images:      []domain.Image{in.User, in.Pet, in.Scene, in.POI},
		Instruction: MarkerRemovalClause,
	})
}

// TransitionInput はシーン遷移系操作の入力です。
// 順序: 人物参照 → ペット参照 → 前ページ画像 → 新背景 → POIマップ。
type TransitionInput struct {
	User  domain.Image
	Pet   domain.Image
	Prior domain.Image
	Scene domain.Image
	POI   domain.Image

	// EditClause は一貫性句やポーズ指定など、先頭に挿す任意の編集指示です。
	EditClause string
}

// TransitionWithPOI はキャラクターを新しい背景のPOI指定位置へ移動させます。
func (c *Compositor) TransitionWithPOI(ctx context.Context, in TransitionInput) (domain.Image, error) {
	return c.executeImage(ctx, gateway.Request{
		Operation:   "transition_with_poi",
		Images:      []domain.Image{in.User, in.Pet, in.Prior, in.Scene, in.POI},
		Instruction: buildTransitionPrompt(in.EditClause),
	})
}

// TransitionAndEdit は移動とポーズ・衣装編集を1回の呼び出しで行います。
// 入力の並びは TransitionWithPOI と同一で、EditClause が必須になる点だけが違います。
func (c *Compositor) TransitionAndEdit(ctx context.Context, in TransitionInput) (domain.Image, error) {
	if in.EditClause == "" {
		return domain.Image{}, fmt.Errorf("transition_and_edit: EditClause is required")
	}
	return c.executeImage(ctx, gateway.Request{
		Operation:   "transition_and_edit",
		Images:      []domain.Image{in.User, in.Pet, in.Prior, in.Scene, in.POI},
		Instruction: buildTransitionPrompt(in.EditClause),
	})
}

// DressUpInput は着せ替え部屋への置き直しの入力です。
// 順序: 人物参照 → ペット参照 → 新背景 → POIマップ。前ページは渡しません。
type DressUpInput struct {
	User  domain.Image
	Pet   domain.Image
	Scene domain.Image
	POI   domain.Image
}

// DressUpPlacement は前ページのポーズを無視して、正面向きのキャラクターを
// 専用背景へ配置します。
func (c *Compositor) DressUpPlacement(ctx context.Context, in DressUpInput) (domain.Image, error) {
	return c.executeImage(ctx, gateway.Request{
		Operation:   "dress_up_placement",
		Images:      []domain.Image{in.User, in.Pet, in.Scene, in.POI},
		Instruction: dressUpPrompt,
	})
}

// PlainEditInput は単一画像の編集入力です。Refs を渡すと、順序が
// 人物参照 → ペット参照 → 編集対象 となり、同一性保持句が前置されます。
type PlainEditInput struct {
	Target      domain.Image
	Instruction string
	Refs        *CharacterRefs
}

// PlainEdit は1枚の画像をその場で編集します。天気の変更・着せ替え・
// 背景の描き直しなど、背景を消費しないステップが使います。
func (c *Compositor) PlainEdit(ctx context.Context, in PlainEditInput) (domain.Image, error) {
	images := []domain.Image{in.Target}
	instruction := in.Instruction

	if in.Refs != nil {
		images = []domain.Image{in.Refs.User, in.Refs.Pet, in.Target}
		instruction = buildIdentityEditPrompt(in.Instruction)
	}

	return c.executeImage(ctx, gateway.Request{
		Operation:   "plain_edit",
		Images:      images,
		Instruction: instruction,
	})
}

// RevealInput はかくれんぼの正解演出の入力です。
// 順序: ペットが隠れたシーン → ペット参照 → 白楕円マスク。
type RevealInput struct {
	Scene  domain.Image
	PetRef domain.Image
	Mask   domain.Image
}

// RevealInMask はマスクの白楕円の内側にだけ隠れたペットを出現させ、
// それ以外の領域は変更しません。
func (c *Compositor) RevealInMask(ctx context.Context, in RevealInput) (domain.Image, error) {
	return c.executeImage(ctx, gateway.Request{
		Operation:   "reveal_in_mask",
		Images:      []domain.Image{in.Scene, in.PetRef, in.Mask},
		Instruction: revealPrompt,
	})
}

// FigureInput は記念品フィギュア生成の入力です。
// 順序: 元シーン → 人物参照 → ペット参照。
type FigureInput struct {
	Scene   domain.Image
	UserRef domain.Image
	PetRef  domain.Image
}

// FigureRender は両キャラクターのコレクションフィギュア風画像を生成します。
func (c *Compositor) FigureRender(ctx context.Context, in FigureInput) (domain.Image, error) {
	return c.executeImage(ctx, gateway.Request{
		Operation:   "figure_render",
		Images:      []domain.Image{in.Scene, in.UserRef, in.PetRef},
		Instruction: figurePrompt,
	})
}

// NarrateScene はシーン画像からページ本文のテキストだけを生成します。
func (c *Compositor) NarrateScene(ctx context.Context, scene domain.Image, prompt string) (string, error) {
	result, err := c.exec.Execute(ctx, gateway.Request{
		Operation:   "narrate_scene",
		Images:      []domain.Image{scene},
		Instruction: prompt,
		WantText:    true,
	})
	if err != nil {
		return "", err
	}
	return result.Text, nil
}

// GeneratePage は画像と本文を1回の呼び出しで同時生成します。
func (c *Compositor) GeneratePage(ctx context.Context, prompt string, images []domain.Image) (domain.Image, string, error) {
	result, err := c.exec.Execute(ctx, gateway.Request{
		Operation:   "generate_page",
		Images:      images,
		Instruction: prompt,
		WantImage:   true,
		WantText:    true,
	})
	if err != nil {
		return domain.Image{}, "", err
	}
	return *result.Image, result.Text, nil
}

// executeImage は画像のみを要求する操作の共通ヘルパーです。
func (c *Compositor) executeImage(ctx context.Context, req gateway.Request) (domain.Image, error) {
	req.WantImage = true
	result, err := c.exec.Execute(ctx, req)
	if err != nil {
		return domain.Image{}, err
	}
	return *result.Image, nil
}
