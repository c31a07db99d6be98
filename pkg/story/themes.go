package story

import "github.com/shouni/gemini-storybook-kit/pkg/domain"

// Themes は組み込みのテーマカタログです。Scenes の先頭は物語開始前の
// 合成で消費されるため、本編で導入できる背景は残りの4枚です。
var Themes = map[string]domain.Theme{
	"kpop": {
		ID:                   "K-pop demon hunters",
		Name:                 "K-pop Demon Hunters",
		Description:          "High-energy adventures with stylish heroes. Dynamic, action-packed, and vibrant.",
		AssetPath:            "/assets/themes/kpop_demonhunters",
		CharacterRefFilename: "character_ref.png",
		PetRefFilename:       "pet_ref.png",
		Scenes: []domain.SceneAsset{
			{SceneFilename: "scene1.png", POIFilename: "scene1_poi.png"},
			{SceneFilename: "scene2.png", POIFilename: "scene2.png"},
			{SceneFilename: "scene3.png", POIFilename: "scene3.png"},
			{SceneFilename: "scene4.png", POIFilename: "scene4.png"},
			{SceneFilename: "scene5.png", POIFilename: "scene5.png"},
		},
	},
}

// LookupTheme は ID またはカタログキーでテーマを検索します。
func LookupTheme(id string) (domain.Theme, bool) {
	if theme, ok := Themes[id]; ok {
		return theme, true
	}
	for _, theme := range Themes {
		if theme.ID == id {
			return theme, true
		}
	}
	return domain.Theme{}, false
}
