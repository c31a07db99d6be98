package story

import (
	"fmt"
	"strings"

	"github.com/shouni/gemini-storybook-kit/pkg/domain"
)

// 台本データ。ページ本文・分岐選択肢・各ステップの編集指示はすべてここに
// 集約し、エンジン本体は進行制御だけに専念させます。

// weatherPrompts は天気ページでシーン全体を変換する指示です。
var weatherPrompts = map[domain.Weather]string{
	domain.WeatherSunny:  "Transform the scene to a sunny day. Preserve the characters and their positions.",
	domain.WeatherRainy:  "Transform the scene to a rainy day. Preserve the characters and their positions.",
	domain.WeatherCloudy: "Transform the scene to a cloudy day. Preserve the characters and their positions.",
	domain.WeatherSnowy:  "Transform the scene to a snowy day. Preserve the characters and their positions.",
}

// ClothingOptions は天気ごとの服装選択肢です。選ばれた Prompt がそのまま
// 着せ替えステップの編集指示になります。
var ClothingOptions = map[domain.Weather][]domain.ClothingOption{
	domain.WeatherSunny: {
		{Label: "Hat", Prompt: "Add a sun hat to the person and a tiny matching one for the pet."},
		{Label: "Shoes", Prompt: "Give the person cool sneakers and the pet tiny boots."},
		{Label: "Dress", Prompt: "Put the person in a light, summery dress."},
		{Label: "Shorts", Prompt: "Change the person's outfit to shorts and a t-shirt."},
	},
	domain.WeatherCloudy: {
		{Label: "Hoodie", Prompt: "Give the person a cozy hoodie and the pet a little sweater."},
		{Label: "Long Shirt", Prompt: "Change the person's outfit to a long-sleeved shirt."},
	},
	domain.WeatherRainy: {
		{Label: "Umbrella", Prompt: "Give the person a colorful umbrella to hold over themselves and their pet."},
		{Label: "Rain Coat", Prompt: "Put the person in a bright yellow raincoat and the pet in a tiny matching one."},
	},
	domain.WeatherSnowy: {
		{Label: "Heavy Outer", Prompt: "Dress the person in a warm winter coat, scarf, and beanie. Give the pet a warm jacket."},
		{Label: "Fur Coat", Prompt: "Put the person in a stylish faux-fur coat and the pet in a tiny, fluffy one."},
	},
}

// 各ステップの固定編集指示です。
const (
	// preservePoseClause は天気ページの編集に付ける保全句です。
	preservePoseClause = "Ensure the characters' appearances, clothing, and poses are perfectly preserved."

	// walkingPoseClause はページ5（散歩の始まり）のポーズ指定です。
	walkingPoseClause = "The person and pet should be walking side-by-side. They should both have happy expressions."

	// pajamaEditClause はおやすみページの編集指示です。
	pajamaEditClause = "Change the person's and pet's outfits to pajamas. The person should look sleepy and be ready for bed, maybe yawning or rubbing their eyes. The pet can be curled up or sleepy too."

	// hidePetClause はかくれんぼページで、背景を変えずにペットだけを隠す指示です。
	hidePetClause = "You are a master photo editor. Your task is to take the pet from the image and hide it cleverly somewhere in the background, making it partially visible or camouflaged. The person must remain clearly visible and their appearance, clothing, and pose should be preserved. The overall art style of the final image must be maintained. The final output should be only the final, edited image."
)

// ページ本文です。本文はすべて台本で固定です。
const (
	textFirstPage   = "Page 1"
	textDressUp     = "Let's get dressed for the day!"
	textReadyToGo   = "We are ready, let's go outside"
	textFunToday    = "Yay it's going to be fun today!"
	textPlayTime    = "It's so fun to play with my friend!"
	textHideAndSeek = "We are at the park! Your fluffy friend is hiding somewhere, where is he? Circle the place you think your friend is hiding"
	textPetFound    = "I found you, my fluffy friend!"
	textGoodnight   = "It was fun tonight. Good night!"
	textKeepsake    = "Here's a special keepsake from your adventure!"
)

// weatherPageText は天気ページの本文です。
func weatherPageText(weather domain.Weather) string {
	return fmt.Sprintf("Wow, it's a %s day!", strings.ToLower(string(weather)))
}

// defaultPageText は特別な本文を持たないページの既定本文です。
func defaultPageText(pageNumber int) string {
	return fmt.Sprintf("Page %d", pageNumber)
}

// backgroundRestylePrompt は新しく導入する背景を物語の画風へ描き直す指示です。
// キャラクターは後工程で合成するため、人や動物は必ず消します。
func backgroundRestylePrompt(weather domain.Weather, night bool) string {
	clause := ""
	switch {
	case night:
		clause = "It should be dark at night. "
	case weather != "":
		clause = fmt.Sprintf("The weather should be %s. ", strings.ToLower(string(weather)))
	}
	return "Redraw ONLY THE BACKGROUND of this scene in the established story style. " + clause +
		"REMOVE any people or animals from the scene, leaving an empty background ready for characters to be added later."
}

// consistencyClause は確定済みの天気・服装を後続プロンプトへ伝える一貫性句です。
// 両方の選択が揃うまでは空文字で、同じ入力からは常に同じ句が得られます。
func consistencyClause(weather domain.Weather, clothing *domain.ClothingOption) string {
	if weather == "" || clothing == nil {
		return ""
	}
	return fmt.Sprintf(`The weather is %s. The characters are dressed for this weather as described: "%s". Maintain this appearance unless instructed otherwise.`,
		weather, clothing.Prompt)
}

// joinClauses は空要素を捨てて編集句を結合します。
func joinClauses(clauses ...string) string {
	parts := make([]string, 0, len(clauses))
	for _, c := range clauses {
		if strings.TrimSpace(c) != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, " ")
}
