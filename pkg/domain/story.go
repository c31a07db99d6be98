package domain

import "strings"

// StoryPage は絵本の1ページです。生成に成功した時点で確定し、以後編集・削除しません。
type StoryPage struct {
	ID    string
	Text  string
	Image Image
}

// Weather は天気の分岐選択肢です。
type Weather string

const (
	WeatherSunny  Weather = "Sunny"
	WeatherCloudy Weather = "Cloudy"
	WeatherRainy  Weather = "Rainy"
	WeatherSnowy  Weather = "Snowy"
)

// ClothingOption は服装の分岐選択肢です。Prompt がそのまま編集指示になります。
type ClothingOption struct {
	Label  string
	Prompt string
}

// SceneAsset はテーマに属する1枚の背景と、その配置指示（POI）画像のペアです。
type SceneAsset struct {
	SceneFilename string `json:"scene_filename"`
	POIFilename   string `json:"poi_filename"`
}

// Theme は物語の画風・舞台を定める読み取り専用の設定バンドルです。
// Scenes の長さが物語で導入できる背景の上限になります。
type Theme struct {
	ID                   string       `json:"id"`
	Name                 string       `json:"name"`
	Description          string       `json:"description"`
	AssetPath            string       `json:"asset_path"`
	CharacterRefFilename string       `json:"character_ref_filename"`
	PetRefFilename       string       `json:"pet_ref_filename"`
	Scenes               []SceneAsset `json:"scenes"`
}

// WithBaseURL は AssetPath を配信元のベースURLへ連結したコピーを返します。
func (t Theme) WithBaseURL(base string) Theme {
	if base == "" {
		return t
	}
	rebased := t
	rebased.AssetPath = strings.TrimSuffix(base, "/") + t.AssetPath
	return rebased
}

// SceneURL は index 番目の背景画像の取得先URLを返します。
func (t Theme) SceneURL(index int) string {
	return t.AssetPath + "/" + t.Scenes[index].SceneFilename
}

// POIURL は index 番目のPOIマップの取得先URLを返します。
func (t Theme) POIURL(index int) string {
	return t.AssetPath + "/" + t.Scenes[index].POIFilename
}

// CharacterRefURL は人物のスタイル参照画像の取得先URLを返します。
func (t Theme) CharacterRefURL() string {
	return t.AssetPath + "/" + t.CharacterRefFilename
}

// PetRefURL はペットのスタイル参照画像の取得先URLを返します。
func (t Theme) PetRefURL() string {
	return t.AssetPath + "/" + t.PetRefFilename
}
