package gateway

import (
	"context"

	"github.com/shouni/gemini-storybook-kit/pkg/domain"
)

// Request は1回の生成呼び出しです。Images は呼び出し側が構築した順序に
// 意味があるため（参照被写体→編集対象→マスクの順）、並べ替えてはいけません。
type Request struct {
	// Operation はエラーメッセージに刻む呼び出し元の操作名です。
	Operation   string
	Images      []domain.Image
	Instruction string
	WantImage   bool
	WantText    bool
}

// Result は生成結果です。要求したモダリティのみが埋まります。
type Result struct {
	Image *domain.Image
	Text  string
}

// Executor は生成バックエンドへの唯一の窓口です。
// 実ネットワーク呼び出しを行うのはこの実装だけで、物語ロジックのテストは
// フェイク実装を差し込んで行います。
type Executor interface {
	Execute(ctx context.Context, req Request) (*Result, error)
}
