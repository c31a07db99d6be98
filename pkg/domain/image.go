package domain

// Image は生成パイプライン全体で受け渡す不変の画像値オブジェクトです。
// 一度構築したら書き換えず、変換のたびに新しい Image を作ります。
type Image struct {
	Data     []byte
	MimeType string
}

// 受け入れ可能な画像のメディアタイプです。
const (
	MimeJPEG = "image/jpeg"
	MimePNG  = "image/png"
)

// IsZero は画像データが空かどうかを返します。
func (img Image) IsZero() bool {
	return len(img.Data) == 0
}

// IsSupportedMimeType は JPEG / PNG のみを受け入れる判定です。
func IsSupportedMimeType(mimeType string) bool {
	return mimeType == MimeJPEG || mimeType == MimePNG
}
