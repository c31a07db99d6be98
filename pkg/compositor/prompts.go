package compositor

import (
	"fmt"
	"strings"
)

// 合成操作ごとの固定プロンプトテンプレート定数です。
// POI系の操作は必ず MarkerRemovalClause で締め、配置マーカー（赤枠やテキスト）が
// 最終画像に残らないようにします。
const (
	// MarkerRemovalClause はPOIマップ入りの合成すべてに共通する締めの指示です。
	MarkerRemovalClause = "Complete the prompts in the image, remove all the red boxes and text, make it seamless"

	// styleConvertTemplate は被写体をテーマの画風へ変換する指示です。
	// %s にはすべて被写体種別（person / pet）が入ります。
	styleConvertTemplate = "Convert %s from the first image to look like a %s from the second image. The new image should feature only the %s. Depict the detailed textures, styles of person"

	// identityEditTemplate は参照画像つき編集の前置きです。画像の番号と被写体の
	// 対応を明示しないと、モデルは編集のたびに顔や服装をずらしてしまいます。
	identityEditTemplate = `You are a master photo editor. You must perform an edit while maintaining character consistency. You are given three images: 1. A reference of the person. 2. A reference of the pet. 3. The image to be edited. The person and pet in the final image must look EXACTLY like their reference images. Now, follow this instruction for the edit: "%s"`

	// dressUpPrompt は前ページのポーズを引き継がず、正面向きで新背景に
	// 置き直すための指示です。
	dressUpPrompt = `You are a master photo editor. Your task is to place a specific person and pet into a new scene with a new pose. You are given images in this order: 1. A definitive reference image of the person. 2. A definitive reference image of the pet. 3. The new background. 4. A POI map for placement. Using ONLY the first two images as the absolute source for the characters' appearance (face, body, and original clothing), place them into the new background (image 3) according to the POI map (image 4, person to blue area, pet to green area). IMPORTANTLY, change the person's pose so they are looking forward at the viewer with a thoughtful expression, as if deciding what to wear. The pet should also look towards the viewer. The final characters must look EXACTLY like their reference images, just in the new pose. The POI map and any red boxes/text must not appear in the final output. Your final image must be a single, clean scene.`

	// revealPrompt は白楕円マスクの内側にだけ隠れたペットを描き戻す指示です。
	revealPrompt = `You are a master photo editor. You are given three images in order: 1. A scene where a pet is hidden. 2. A reference image of the hidden pet. 3. A mask image with a white ellipse. Your task is to reveal the pet from the reference image (image 2) inside the white ellipse area of the scene (image 1). The pet should be seamlessly blended into the scene and should appear to be interacting with the objects or environment within the circled area. The rest of the image should remain unchanged. The final output should be only the final, blended image.`

	// figurePrompt は物語の記念品となるフィギュア風レンダリングの指示です。
	figurePrompt = `You are a master 3D artist. Your task is to create a photorealistic image of a 1/7 scale collectible figurine based on a character and pet. You are given three images in order: 1. The original scene containing the characters. 2. A definitive reference image of the person. 3. A definitive reference image of the pet. Using the second and third images as the absolute reference for the characters' appearances, create a single image of a high-quality figurine. The figurine should depict the person and pet standing together inside a room diorama, both waving happily at the viewer. The style must be hyper-realistic, mimicking a physical product photograph with realistic lighting and shadows.`
)

// buildStyleConvertPrompt は被写体種別を埋めた画風変換プロンプトを返します。
func buildStyleConvertPrompt(subject Subject) string {
	s := string(subject)
	return fmt.Sprintf(styleConvertTemplate, s, s, s)
}

// buildTransitionPrompt は編集句（任意）とマーカー除去句を結合します。
func buildTransitionPrompt(editClause string) string {
	if strings.TrimSpace(editClause) == "" {
		return MarkerRemovalClause
	}
	return editClause + ". " + MarkerRemovalClause
}

// buildIdentityEditPrompt は参照画像つき編集プロンプトを構築します。
func buildIdentityEditPrompt(instruction string) string {
	return fmt.Sprintf(identityEditTemplate, instruction)
}
