package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd はすべてのサブコマンドの親です。
var rootCmd = &cobra.Command{
	Use:   "storybook",
	Short: "写真から始まる、AI挿絵つきインタラクティブ絵本ジェネレーターなのだ！",
	Long: `ユーザーとペットの写真をテーマの画風へ変換し、天気や服装の選択で
分岐する10ページの絵本を対話的に生成するのだ。`,
	SilenceUsage: true,
}

// Execute はルートコマンドを実行します。エラー時は非ゼロで終了します。
func Execute() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if err := rootCmd.Execute(); err != nil {
		slog.Error("コマンドの実行に失敗しました", "error", err)
		os.Exit(1)
	}
}
