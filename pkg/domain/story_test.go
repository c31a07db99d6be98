package domain

import "testing"

func testTheme() Theme {
	return Theme{
		ID:                   "test-theme",
		AssetPath:            "/assets/themes/test",
		CharacterRefFilename: "character_ref.png",
		PetRefFilename:       "pet_ref.png",
		Scenes: []SceneAsset{
			{SceneFilename: "scene1.png", POIFilename: "scene1_poi.png"},
			{SceneFilename: "scene2.png", POIFilename: "scene2.png"},
		},
	}
}

func TestTheme_URLs(t *testing.T) {
	theme := testTheme()

	t.Run("シーンとPOIのURLが組み立てられること", func(t *testing.T) {
		if got := theme.SceneURL(0); got != "/assets/themes/test/scene1.png" {
			t.Errorf("unexpected scene url: %s", got)
		}
		if got := theme.POIURL(0); got != "/assets/themes/test/scene1_poi.png" {
			t.Errorf("unexpected poi url: %s", got)
		}
		if got := theme.POIURL(1); got != "/assets/themes/test/scene2.png" {
			t.Errorf("unexpected poi url: %s", got)
		}
	})

	t.Run("参照画像のURLが組み立てられること", func(t *testing.T) {
		if got := theme.CharacterRefURL(); got != "/assets/themes/test/character_ref.png" {
			t.Errorf("unexpected character ref url: %s", got)
		}
		if got := theme.PetRefURL(); got != "/assets/themes/test/pet_ref.png" {
			t.Errorf("unexpected pet ref url: %s", got)
		}
	})
}

func TestTheme_WithBaseURL(t *testing.T) {
	theme := testTheme()

	t.Run("ベースURLが前置されること", func(t *testing.T) {
		rebased := theme.WithBaseURL("https://assets.example.com")
		if got := rebased.SceneURL(0); got != "https://assets.example.com/assets/themes/test/scene1.png" {
			t.Errorf("unexpected url: %s", got)
		}
	})

	t.Run("末尾スラッシュが重複しないこと", func(t *testing.T) {
		rebased := theme.WithBaseURL("https://assets.example.com/")
		if got := rebased.SceneURL(0); got != "https://assets.example.com/assets/themes/test/scene1.png" {
			t.Errorf("unexpected url: %s", got)
		}
	})

	t.Run("空のベースでは変化しないこと", func(t *testing.T) {
		rebased := theme.WithBaseURL("")
		if got := rebased.SceneURL(0); got != theme.SceneURL(0) {
			t.Errorf("unexpected url: %s", got)
		}
	})
}
