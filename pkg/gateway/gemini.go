package gateway

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/gemini-storybook-kit/pkg/domain"

	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"
)

// GeminiGateway は Executor の Gemini 実装です。
// 画像パーツを先、指示テキストを最後に並べます。モデルは画像が先のほうが
// 編集精度が上がるためです。
type GeminiGateway struct {
	aiClient gemini.GenerativeModel
	model    string
}

// NewGeminiGateway は依存関係を注入して GeminiGateway を初期化します。
func NewGeminiGateway(aiClient gemini.GenerativeModel, model string) (*GeminiGateway, error) {
	if aiClient == nil {
		return nil, fmt.Errorf("aiClient (gemini.GenerativeModel) is required")
	}
	if model == "" {
		return nil, fmt.Errorf("model is required")
	}

	return &GeminiGateway{
		aiClient: aiClient,
		model:    model,
	}, nil
}

// Execute はリクエストを1回の GenerateWithParts 呼び出しに変換し、
// 要求されたモダリティを検証して返します。
func (g *GeminiGateway) Execute(ctx context.Context, req Request) (*Result, error) {
	slog.InfoContext(ctx, "Gemini生成リクエストを準備中",
		"operation", req.Operation,
		"model", g.model,
		"image_count", len(req.Images),
	)

	parts := make([]*genai.Part, 0, len(req.Images)+1)
	for _, img := range req.Images {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{MIMEType: img.MimeType, Data: img.Data},
		})
	}
	parts = append(parts, &genai.Part{Text: req.Instruction})

	resp, err := g.aiClient.GenerateWithParts(ctx, g.model, parts, gemini.GenerateOptions{})
	if err != nil {
		return nil, fmt.Errorf("%s: Gemini呼び出しに失敗しました: %w", req.Operation, err)
	}

	result, err := parseResult(resp)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", req.Operation, err)
	}

	if req.WantImage && result.Image == nil {
		return nil, fmt.Errorf("%s: 画像が含まれていません: %w", req.Operation, domain.ErrMissingModality)
	}
	if req.WantText && result.Text == "" {
		return nil, fmt.Errorf("%s: テキストが含まれていません: %w", req.Operation, domain.ErrMissingModality)
	}

	return result, nil
}

// parseResult は Gemini のレスポンスから画像とテキストを抽出します。
func parseResult(resp *gemini.Response) (*Result, error) {
	if resp == nil || resp.RawResponse == nil || len(resp.RawResponse.Candidates) == 0 {
		return nil, domain.ErrEmptyResponse
	}

	// 現在の仕様では、Geminiからの最初の候補 (Candidate) のみを利用する。
	candidate := resp.RawResponse.Candidates[0]

	result := &Result{}
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			switch {
			case part.InlineData != nil && len(part.InlineData.Data) > 0:
				result.Image = &domain.Image{
					Data:     part.InlineData.Data,
					MimeType: part.InlineData.MIMEType,
				}
			case part.Text != "":
				result.Text = part.Text
			}
		}
	}

	// 安全フィルター等によるブロックの確認
	if result.Image == nil && result.Text == "" {
		if candidate.FinishReason != genai.FinishReasonUnspecified && candidate.FinishReason != genai.FinishReasonStop {
			return nil, fmt.Errorf("生成が異常終了しました (FinishReason: %s): %w", candidate.FinishReason, domain.ErrEmptyResponse)
		}
	}

	return result, nil
}
