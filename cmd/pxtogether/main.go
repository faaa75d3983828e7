// Command pxtogether 从脚本驱动像素编辑器：每行一条命令，
// 命令被转换成编辑器消息并交给事件循环按顺序处理。
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/flxzt/pxtogether/internal/bootstrap"
	"github.com/flxzt/pxtogether/internal/domain"
	"github.com/flxzt/pxtogether/internal/editor"
)

var errArchiveDisabled = errors.New("archiving is disabled (set ARCHIVE_ENABLED)")

func main() {
	strict := flag.Bool("strict", false, "stop at the first invalid line")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-strict] [script]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	app, err := bootstrap.NewApp(cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize application: %v", err)
	}
	app.Start()

	var in io.Reader = os.Stdin
	if flag.NArg() > 0 {
		f, err := os.Open(flag.Arg(0))
		if err != nil {
			app.Shutdown()
			logrus.Fatalf("Failed to open script: %v", err)
		}
		defer f.Close()
		in = f
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = runScript(ctx, app, in, os.Stdout, *strict)
	app.Shutdown()
	if err != nil {
		logrus.Fatal(err)
	}
}

// runScript 逐行执行脚本，直到输入结束或 ctx 被取消。
func runScript(ctx context.Context, app *bootstrap.App, in io.Reader, out io.Writer, strict bool) error {
	scanner := bufio.NewScanner(in)
	lineNo := 0
	for scanner.Scan() {
		if ctx.Err() != nil {
			logrus.Info("Shutdown signal received...")
			return nil
		}
		lineNo++
		d, ok, err := parseLine(scanner.Text())
		if err != nil {
			if strict {
				return fmt.Errorf("line %d: %w", lineNo, err)
			}
			logrus.WithField("line", lineNo).WithError(err).Error("Skipping invalid line")
			continue
		}
		if !ok {
			continue
		}
		if err := execute(app, d, out); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	return scanner.Err()
}

func execute(app *bootstrap.App, d directive, out io.Writer) error {
	if d.msg != nil {
		return app.Loop.Send(d.msg)
	}
	if err := app.Loop.Drain(); err != nil {
		return err
	}
	if d.history != "" {
		return printHistory(app, d.history, d.limit, out)
	}
	if d.list {
		names, err := app.Store.List(context.Background())
		if err != nil {
			return err
		}
		for _, name := range names {
			if _, err := fmt.Fprintln(out, name); err != nil {
				return err
			}
		}
		return nil
	}
	if !d.print {
		return nil
	}
	var text string
	if err := app.Loop.Inspect(func() { text = renderText(app.Service.State()) }); err != nil {
		return err
	}
	_, err := io.WriteString(out, text)
	return err
}

// printHistory 按保存时间倒序打印归档：时间和字节数。
func printHistory(app *bootstrap.App, name string, limit int, out io.Writer) error {
	if app.ArchiveRepo == nil {
		return errArchiveDisabled
	}
	archives, err := app.ArchiveRepo.ListArchives(context.Background(), name, limit)
	if err != nil {
		return err
	}
	for _, a := range archives {
		if _, err := fmt.Fprintf(out, "%s %d\n", a.SavedAt.UTC().Format(time.RFC3339), a.Size); err != nil {
			return err
		}
	}
	return nil
}

// renderText 把网格画成文本，透明格子为 '.'，其它为 '#'，每行末尾换行。
func renderText(s *editor.State) string {
	rows := make([][]byte, s.Rows())
	for r := range rows {
		rows[r] = []byte(strings.Repeat(".", s.Columns()))
	}
	s.Each(func(column, row int, p domain.Pixel) {
		if p.Color.A > 0 {
			rows[row][column] = '#'
		}
	})
	var b strings.Builder
	for _, r := range rows {
		b.Write(r)
		b.WriteByte('\n')
	}
	return b.String()
}
