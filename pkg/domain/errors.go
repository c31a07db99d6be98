package domain

import "errors"

// 物語生成の失敗はすべてステップ単位で完結します。どのエラーでもエンジンの
// 状態はステップ開始前のまま残るため、同じ操作をそのまま再試行できます。
var (
	// ErrAssetFetch はテーマアセットの取得（HTTP等）に失敗したことを示します。
	ErrAssetFetch = errors.New("asset fetch failed")

	// ErrUnknownMediaType は転送メタデータからも拡張子からも
	// メディアタイプを特定できなかったことを示します。
	ErrUnknownMediaType = errors.New("unknown media type")

	// ErrEmptyResponse は生成バックエンドが候補を一つも返さなかったことを示します。
	ErrEmptyResponse = errors.New("empty response from backend")

	// ErrMissingModality は要求したモダリティ（画像・テキスト）が
	// レスポンスに含まれていなかったことを示します。
	ErrMissingModality = errors.New("requested modality missing in response")

	// ErrSceneExhausted は台本が次の背景を要求したのにテーマの
	// シーンリストを使い切っていたことを示します。
	ErrSceneExhausted = errors.New("theme scenes exhausted")

	// ErrInvalidUpload は対応外のファイル種別、または読み取れない
	// アップロードファイルを示します。
	ErrInvalidUpload = errors.New("invalid upload file")

	// ErrStoryFinished は台本の最終ページ到達後に続きを要求されたことを示します。
	ErrStoryFinished = errors.New("story already finished")

	// ErrWrongStep はページ数と噛み合わない操作（例: 1ページ目以外での
	// 天気選択）を示します。
	ErrWrongStep = errors.New("operation does not match current story step")
)
