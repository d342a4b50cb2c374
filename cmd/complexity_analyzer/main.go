// Command complexity_analyzer fits skip list benchmark measurements to their
// expected complexity and renders the results as charts and a PDF report.
//
// Usage:
//
//	complexity_analyzer [analyze] [flags]
//	complexity_analyzer collect [flags]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"k8s.io/klog/v2"

	"github.com/user/complexity_analyzer_go/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()
	klog.Flush()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	cmd := "analyze"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}

	var err error
	switch cmd {
	case "analyze":
		err = runAnalyze(ctx, args, stderr)
	case "collect":
		err = runCollect(ctx, args, stderr)
	default:
		fmt.Fprintf(stderr, "unknown command %q\nusage: complexity_analyzer [analyze|collect] [flags]\n", cmd)
		return 2
	}

	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		klog.Errorf("%s failed: %v", cmd, err)
		return 1
	}
	return 0
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	klog.InitFlags(fs)
	return fs
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func runAnalyze(ctx context.Context, args []string, stderr io.Writer) error {
	fs := newFlagSet("analyze", stderr)
	configPath := fs.String("config", "", "YAML configuration file")
	timePath := fs.String("time", "", "time measurements CSV (N,InsertTime,SearchTime)")
	spacePath := fs.String("space", "", "space measurements CSV (N,MemoryMB)")
	benchPath := fs.String("bench", "", "go test -bench -benchmem output used for both analyses")
	limit1 := fs.Int("limit1", 0, "upper N of the first time segment")
	limit2 := fs.Int("limit2", 0, "lower N of the third time segment")
	outDir := fs.String("out", "", "output directory for charts and the fit summary")
	pdfPath := fs.String("pdf", "", "PDF report file")
	sample := fs.Bool("sample", false, "analyze the embedded reference measurements")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *benchPath != "" {
		cfg.Time.Input, cfg.Time.Bench = *benchPath, true
		cfg.Space.Input, cfg.Space.Bench = *benchPath, true
	}
	if *timePath != "" {
		cfg.Time.Input, cfg.Time.Bench = *timePath, false
	}
	if *spacePath != "" {
		cfg.Space.Input, cfg.Space.Bench = *spacePath, false
	}
	if *limit1 != 0 {
		cfg.Time.Limit1 = *limit1
	}
	if *limit2 != 0 {
		cfg.Time.Limit2 = *limit2
	}
	if *outDir != "" {
		cfg.Report.OutputDir = *outDir
	}
	if *pdfPath != "" {
		cfg.Report.PDF = *pdfPath
	}

	app := NewApp(ctx, cfg)
	app.sample = *sample
	return app.Analyze()
}

func runCollect(ctx context.Context, args []string, stderr io.Writer) error {
	fs := newFlagSet("collect", stderr)
	configPath := fs.String("config", "", "YAML configuration file")
	timeOut := fs.String("time-out", "", "time measurements CSV to write")
	spaceOut := fs.String("space-out", "", "space measurements CSV to write")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *timeOut != "" {
		cfg.Collect.TimeOutput = *timeOut
	}
	if *spaceOut != "" {
		cfg.Collect.SpaceOutput = *spaceOut
	}

	return NewApp(ctx, cfg).Collect()
}
