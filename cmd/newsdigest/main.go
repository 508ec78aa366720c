package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/deusflow/newsdigest/internal/app"
	"github.com/deusflow/newsdigest/internal/config"
	"github.com/deusflow/newsdigest/internal/logger"
)

// version is set at build time via ldflags
var version = "dev"

type flags struct {
	keyword    string
	noDedup    bool
	configFile string
}

func newRootCmd(out io.Writer) *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "newsdigest [query]",
		Short: "Collect, filter and summarize Korean news into an HTML digest",
		Long: `newsdigest searches news for a query, keeps the articles a language model
rates as relevant, summarizes them and writes an HTML report.

Examples:
  newsdigest                          # search the default query '빈집'
  newsdigest "부동산"                  # search '부동산'
  newsdigest "빈집" --keyword "농촌"   # custom relevance keyword
  newsdigest "빈집" --no-dedup         # skip duplicate removal`,
		Args:          cobra.MaximumNArgs(1),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := app.DefaultQuery
			if len(args) == 1 {
				query = args[0]
			}
			return run(cmd.Context(), out, query, f)
		},
	}
	cmd.SetOut(out)

	cmd.Flags().StringVar(&f.keyword, "keyword", "", "relevance keyword (default: derived from the query)")
	cmd.Flags().BoolVar(&f.noDedup, "no-dedup", false, "skip duplicate removal")
	cmd.Flags().StringVar(&f.configFile, "config", "", "YAML config file (default $"+config.ConfigPathEnv+")")
	return cmd
}

func run(ctx context.Context, out io.Writer, query string, f flags) error {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load(f.configFile)
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel, cfg.Debug)

	now := time.Now()
	fmt.Fprintf(out, "검색어: %s\n", query)
	fmt.Fprintf(out, "수집 기간: %s\n", cfg.Window(now))

	res, err := app.Run(ctx, cfg, app.Options{
		Query:   query,
		Keyword: f.keyword,
		NoDedup: f.noDedup,
		Now:     func() time.Time { return now },
	}, log)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "처리 결과: 전체 %d개, 처리 %d개, 스킵 %d개\n", res.Stats.Total, res.Stats.Processed, res.Stats.Skipped)
	if res.ReportFile != "" {
		fmt.Fprintf(out, "결과 파일: %s\n", res.ReportFile)
	} else {
		fmt.Fprintln(out, "결과 파일 저장에 실패했습니다.")
	}
	if res.NoDupFile != "" {
		fmt.Fprintf(out, "중복 제거 파일: %s\n", res.NoDupFile)
	}
	fmt.Fprintln(out, "작업 완료!")
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd(os.Stdout).ExecuteContext(ctx)
	switch {
	case err == nil:
		return
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(os.Stderr, "작업이 중단되었습니다.")
	default:
		fmt.Fprintf(os.Stderr, "오류: %v\n", err)
	}
	stop()
	os.Exit(1)
}
