package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/gcsfactory"
	"github.com/spf13/cobra"

	"github.com/shouni/gemini-storybook-kit/internal/config"
	"github.com/shouni/gemini-storybook-kit/pkg/asset"
	"github.com/shouni/gemini-storybook-kit/pkg/compositor"
	"github.com/shouni/gemini-storybook-kit/pkg/domain"
	"github.com/shouni/gemini-storybook-kit/pkg/gateway"
	"github.com/shouni/gemini-storybook-kit/pkg/mask"
	"github.com/shouni/gemini-storybook-kit/pkg/runner"
	"github.com/shouni/gemini-storybook-kit/pkg/story"
)

const httpTimeout = 60 * time.Second

// storyOptions は story サブコマンドのフラグ値です。
type storyOptions struct {
	UserPhoto string
	PetPhoto  string
	ThemeID   string
	OutDir    string
}

var storyOpts storyOptions

// storyCmd は写真2枚から1冊の絵本を対話的に生成するのだ！
var storyCmd = &cobra.Command{
	Use:   "story",
	Short: "写真2枚から、選択分岐つきの絵本を1冊生成するのだ！",
	Example: "  storybook story --user-photo me.jpg --pet-photo dog.jpg --theme kpop -o output",
	RunE:    storyCommand,
}

func init() {
	storyCmd.Flags().StringVar(&storyOpts.UserPhoto, "user-photo", "", "ユーザー写真のパス（ローカルまたは gs://）")
	storyCmd.Flags().StringVar(&storyOpts.PetPhoto, "pet-photo", "", "ペット写真のパス（ローカルまたは gs://）")
	storyCmd.Flags().StringVar(&storyOpts.ThemeID, "theme", "kpop", "テーマID")
	storyCmd.Flags().StringVarP(&storyOpts.OutDir, "out-dir", "o", "output", "ページ画像の出力先ディレクトリ")
	_ = storyCmd.MarkFlagRequired("user-photo")
	_ = storyCmd.MarkFlagRequired("pet-photo")

	rootCmd.AddCommand(storyCmd)
}

// storyCommand は story サブコマンドの実行ロジック本体なのだ。
func storyCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	theme, ok := story.LookupTheme(storyOpts.ThemeID)
	if !ok {
		return fmt.Errorf("未知のテーマです: %s", storyOpts.ThemeID)
	}
	theme = theme.WithBaseURL(cfg.AssetBaseURL)

	session, err := buildSession(ctx, cfg, theme)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(storyOpts.OutDir, 0o755); err != nil {
		return fmt.Errorf("出力先を作成できません: %w", err)
	}

	// 前段フェーズ: 画風変換 → 冒頭シーン合成
	slog.Info("キャラクターを変換中です。少し待つのだ…")
	if err := session.ConvertCharacters(ctx, storyOpts.UserPhoto, storyOpts.PetPhoto); err != nil {
		return err
	}
	slog.Info("冒頭シーンを合成中です…")
	if err := session.SetupScene(ctx); err != nil {
		return err
	}

	engine, err := session.NewStory(ctx)
	if err != nil {
		return err
	}

	return runStoryLoop(ctx, engine, cmd.InOrStdin(), cmd.OutOrStdout())
}

// buildSession は設定から全依存を組み立ててセッションを返します。
func buildSession(ctx context.Context, cfg *config.Config, theme domain.Theme) (*runner.Session, error) {
	aiClient, err := gemini.NewClient(ctx, gemini.Config{APIKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("Geminiクライアントの初期化に失敗しました: %w", err)
	}

	gw, err := gateway.NewGeminiGateway(aiClient, cfg.Model)
	if err != nil {
		return nil, err
	}
	comp, err := compositor.New(gw)
	if err != nil {
		return nil, err
	}

	httpClient := httpkit.New(httpTimeout)
	ioFactory, err := gcsfactory.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("リーダーの初期化に失敗しました: %w", err)
	}
	reader, err := ioFactory.InputReader()
	if err != nil {
		return nil, fmt.Errorf("リーダーの初期化に失敗しました: %w", err)
	}
	resolver, err := asset.NewResolver(httpClient, reader,
		gocache.New(cfg.CacheTTL, 2*cfg.CacheTTL), cfg.CacheTTL)
	if err != nil {
		return nil, err
	}

	r, err := runner.NewRunner(comp, resolver)
	if err != nil {
		return nil, err
	}
	return r.NewSession(theme)
}

// runStoryLoop は物語が完結するまで選択を読み取りながらページを生成します。
func runStoryLoop(ctx context.Context, engine *story.Engine, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)

	if page, ok := engine.CurrentPage(); ok {
		if err := savePage(out, page, engine.Position()); err != nil {
			return err
		}
	}

	for !engine.Finished() {
		var err error
		switch engine.Step() {
		case story.StepWeatherChoice:
			err = promptWeather(ctx, engine, scanner, out)
		case story.StepClothingChoice:
			err = promptClothing(ctx, engine, scanner, out)
		case story.StepHidePet:
			err = engine.Continue(ctx)
			if err == nil {
				// かくれんぼページを確定してから、お絵描きの入力を受け取る
				if page, ok := engine.CurrentPage(); ok {
					if err = savePage(out, page, engine.Position()); err != nil {
						return err
					}
				}
				revealed, err := promptHideAndSeek(ctx, engine, scanner, out)
				if err != nil {
					return err
				}
				if revealed {
					if page, ok := engine.CurrentPage(); ok {
						if err := savePage(out, page, engine.Position()); err != nil {
							return err
						}
					}
				}
				continue
			}
		default:
			err = engine.Continue(ctx)
		}
		if err != nil {
			// 生成失敗ではページが増えていないので、そのまま再試行できます
			slog.Error("ステップに失敗しました。もう一度試すのだ", "error", err)
			fmt.Fprintln(out, "もう一度試す場合は Enter、やめる場合は q を入力してください。")
			if line, ok := readLine(scanner); !ok || line == "q" {
				return err
			}
			continue
		}

		if page, ok := engine.CurrentPage(); ok {
			if err := savePage(out, page, engine.Position()); err != nil {
				return err
			}
		}
	}

	fmt.Fprintln(out, "絵本が完成しました！おしまい。")
	return nil
}

// promptWeather は天気の選択を読み取ります。
func promptWeather(ctx context.Context, engine *story.Engine, scanner *bufio.Scanner, out io.Writer) error {
	choices := []domain.Weather{
		domain.WeatherSunny, domain.WeatherCloudy, domain.WeatherRainy, domain.WeatherSnowy,
	}
	fmt.Fprintln(out, "今日の天気を選んでください:")
	for i, w := range choices {
		fmt.Fprintf(out, "  %d) %s\n", i+1, w)
	}

	idx, err := readChoice(scanner, len(choices))
	if err != nil {
		return err
	}
	return engine.ChooseWeather(ctx, choices[idx])
}

// promptClothing は天気に合わせた服装の選択を読み取ります。
func promptClothing(ctx context.Context, engine *story.Engine, scanner *bufio.Scanner, out io.Writer) error {
	options := story.ClothingOptions[engine.Weather()]
	if len(options) == 0 {
		return fmt.Errorf("天気 %s の服装選択肢がありません", engine.Weather())
	}

	fmt.Fprintln(out, "今日の服装を選んでください:")
	for i, option := range options {
		fmt.Fprintf(out, "  %d) %s\n", i+1, option.Label)
	}

	idx, err := readChoice(scanner, len(options))
	if err != nil {
		return err
	}
	return engine.ChooseClothing(ctx, options[idx])
}

// promptHideAndSeek はドラッグ座標を読み取ってペットを出現させます。
// 空行ならお絵描きをスキップして次のページへ進みます。
func promptHideAndSeek(ctx context.Context, engine *story.Engine, scanner *bufio.Scanner, out io.Writer) (bool, error) {
	page, ok := engine.CurrentPage()
	if !ok {
		return false, fmt.Errorf("かくれんぼページがありません")
	}

	surface, err := mask.NewSurfaceForImage(page.Image)
	if err != nil {
		return false, err
	}

	fmt.Fprintln(out, "ペットが隠れていそうな場所を囲んでください。")
	fmt.Fprintln(out, "ドラッグの始点と終点を「x0 y0 x1 y1」で入力します（Enterのみでスキップ）:")

	for {
		line, ok := readLine(scanner)
		if !ok || line == "" {
			return false, nil // スキップして Continue の経路へ
		}

		coords, err := parseCoords(line)
		if err != nil {
			fmt.Fprintf(out, "入力が読めませんでした（%v）。もう一度どうぞ:\n", err)
			continue
		}

		surface.Begin(coords[0], coords[1])
		surface.Move(coords[2], coords[3])
		maskImage, drawn, err := surface.End()
		if err != nil {
			return false, err
		}
		if !drawn {
			fmt.Fprintln(out, "囲みの面積がゼロでした。もう少し大きく囲んでください:")
			continue
		}
		if err := engine.RevealPet(ctx, maskImage); err != nil {
			return false, err
		}
		return true, nil
	}
}

// parseCoords は「x0 y0 x1 y1」形式の1行を解析します。
func parseCoords(line string) ([4]int, error) {
	fields := strings.Fields(line)
	if len(fields) != 4 {
		return [4]int{}, fmt.Errorf("4つの数値が必要です")
	}
	var coords [4]int
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return [4]int{}, fmt.Errorf("%q は数値ではありません", f)
		}
		coords[i] = v
	}
	return coords, nil
}

// readChoice は 1 始まりの番号入力を読み取り、0 始まりで返します。
func readChoice(scanner *bufio.Scanner, max int) (int, error) {
	for {
		line, ok := readLine(scanner)
		if !ok {
			return 0, fmt.Errorf("入力が終了しました")
		}
		n, err := strconv.Atoi(line)
		if err == nil && n >= 1 && n <= max {
			return n - 1, nil
		}
	}
}

func readLine(scanner *bufio.Scanner) (string, bool) {
	if !scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(scanner.Text()), true
}

// savePage はページ画像をファイルへ書き出し、本文を表示します。
func savePage(out io.Writer, page domain.StoryPage, position int) error {
	ext := ".png"
	if page.Image.MimeType == domain.MimeJPEG {
		ext = ".jpg"
	}
	name := filepath.Join(storyOpts.OutDir, fmt.Sprintf("page_%02d%s", position+1, ext))

	if err := os.WriteFile(name, page.Image.Data, 0o644); err != nil {
		return fmt.Errorf("ページの保存に失敗しました: %w", err)
	}

	fmt.Fprintf(out, "\n--- %d ページ目 ---\n%s\n(保存先: %s)\n", position+1, page.Text, name)
	return nil
}
