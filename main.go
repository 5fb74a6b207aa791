// Command normangles folds angle values into a half-open range [lower, upper).
//
// Values are taken from the command line, or from stdin when none are given:
//
//	normangles -- 370 -10 45         # 10 350 45
//	normangles -lower -180 -upper 180 -format csv < headings.txt
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pthm-cable/normangles/angles"
	"github.com/pthm-cable/normangles/config"
	"github.com/pthm-cable/normangles/report"
)

// options holds parsed CLI flags. Only flags present in set override config.
type options struct {
	configPath string
	dumpConfig string
	outputPath string

	bulk     bool
	lower    float64
	upper    float64
	strategy string
	format   string

	set map[string]bool
}

func main() {
	var opts options

	// CLI flags
	flag.StringVar(&opts.configPath, "config", "", "Path to config.yaml (empty = use defaults)")
	flag.StringVar(&opts.dumpConfig, "dump-config", "", "Write the effective config to this path and continue")
	flag.StringVar(&opts.outputPath, "output", "", "Write results to this file (empty = stdout)")
	flag.BoolVar(&opts.bulk, "bulk", true, "Treat input as one sequence (false = exactly one scalar)")
	flag.Float64Var(&opts.lower, "lower", 0, "Lower bound, inclusive")
	flag.Float64Var(&opts.upper, "upper", 360, "Upper bound, exclusive")
	flag.StringVar(&opts.strategy, "strategy", "", "Sequence strategy: vectorized, elementwise or chunked")
	flag.StringVar(&opts.format, "format", "", "Output format: text or csv")
	flag.Parse()

	opts.set = make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })

	// Structured logs go to stderr so stdout stays clean for results
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	out := io.Writer(os.Stdout)
	var outFile *os.File
	if opts.outputPath != "" {
		f, err := os.Create(opts.outputPath)
		if err != nil {
			slog.Error("failed to create output file", "path", opts.outputPath, "error", err)
			os.Exit(1)
		}
		outFile = f
		out = f
	}

	err := run(opts, flag.Args(), os.Stdin, out)
	if outFile != nil {
		if cerr := outFile.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	if err != nil {
		slog.Error("normalization failed", "error", err)
		os.Exit(1)
	}
}

// loadConfig initializes the global config and applies flag overrides.
func loadConfig(opts options) (*config.Config, error) {
	if err := config.Init(opts.configPath); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	cfg := config.Cfg()

	if opts.set["bulk"] {
		cfg.Normalizer.Bulk = opts.bulk
	}
	if opts.set["lower"] {
		cfg.Normalizer.Range.Lower = opts.lower
	}
	if opts.set["upper"] {
		cfg.Normalizer.Range.Upper = opts.upper
	}
	if opts.set["strategy"] {
		cfg.Normalizer.Strategy = opts.strategy
	}
	if opts.set["format"] {
		cfg.Output.Format = opts.format
	}

	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("applying flags: %w", err)
	}
	return cfg, nil
}

// run normalizes args (or stdin when args is empty) and writes the results.
// In bulk mode stdin is streamed in batches of input.batch_size.
func run(opts options, args []string, stdin io.Reader, stdout io.Writer) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	if opts.dumpConfig != "" {
		if err := cfg.WriteYAML(opts.dumpConfig); err != nil {
			return err
		}
	}

	w, err := report.NewWriter(stdout, cfg.Output.Format, cfg.Output.Precision)
	if err != nil {
		return err
	}

	b := &batcher{n: cfg.NewNormalizer(), bulk: cfg.Normalizer.Bulk, w: w}

	switch {
	case len(args) > 0:
		values, err := parseArgs(args)
		if err != nil {
			return err
		}
		if err := b.emit(values); err != nil {
			return err
		}
	case cfg.Normalizer.Bulk:
		if err := report.ReadBatches(stdin, cfg.Input.BatchSize, b.emit); err != nil {
			return err
		}
	default:
		values, err := report.ReadValues(stdin)
		if err != nil {
			return err
		}
		if err := b.emit(values); err != nil {
			return err
		}
	}

	slog.Info("normalized",
		"count", b.count,
		"batches", b.batches,
		"mode", b.n.Mode().String(),
		"range", b.n.Range().String(),
		"strategy", cfg.Normalizer.Strategy,
	)
	return nil
}

// batcher normalizes one batch of values at a time and writes the records,
// numbering them across batches.
type batcher struct {
	n    *angles.Normalizer
	bulk bool
	w    *report.Writer

	count   int
	batches int
}

func (b *batcher) emit(values []float64) error {
	// A scalar-mode run with anything but one value is handed over as a
	// sequence so the normalizer reports the mismatch itself.
	var input any = values
	if !b.bulk && len(values) == 1 {
		input = values[0]
	}

	result, err := b.n.Normalize(input)
	if err != nil {
		return err
	}

	var outputs []float64
	switch v := result.(type) {
	case float64:
		outputs = []float64{v}
	case []float64:
		outputs = v
	default:
		return fmt.Errorf("unexpected result type %T", result)
	}

	records, err := report.Records(b.count, values, outputs)
	if err != nil {
		return err
	}
	if err := b.w.Write(records); err != nil {
		return err
	}
	b.count += len(values)
	b.batches++
	return nil
}

func parseArgs(args []string) ([]float64, error) {
	values := make([]float64, 0, len(args))
	for _, a := range args {
		v, err := report.ParseValue(a)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}
