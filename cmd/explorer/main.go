// Command explorer scans a motion dataset tree and reports statistics,
// duration queries, charts, a CSV export and a joint range check.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/banshee-data/motion.report/internal/catalog"
	"github.com/banshee-data/motion.report/internal/chart"
	"github.com/banshee-data/motion.report/internal/classify"
	"github.com/banshee-data/motion.report/internal/config"
	"github.com/banshee-data/motion.report/internal/dataset"
	"github.com/banshee-data/motion.report/internal/monitoring"
	"github.com/banshee-data/motion.report/internal/motion"
	"github.com/banshee-data/motion.report/internal/version"
)

const defaultExport = "amass_summary.csv"

var errUsage = errors.New("usage")

// Options holds the command-line flags.
type Options struct {
	Action      string
	DataRoot    string
	ConfigPath  string
	Dataset     string
	File        string
	DurationMin float64
	DurationMax float64
	Output      string
	DB          string
	Version     bool
}

func parseFlags(args []string, stderr io.Writer) (Options, *flag.FlagSet, error) {
	var o Options
	fs := flag.NewFlagSet("explorer", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&o.Action, "action", "summary", "scan, summary, explore, analyze, find, plot, export or check")
	fs.StringVar(&o.DataRoot, "data_root", "", "Dataset root (default from config, else g1)")
	fs.StringVar(&o.ConfigPath, "config", "", "JSON config file (default "+config.DefaultConfigPath+" when present)")
	fs.StringVar(&o.Dataset, "dataset", "", "Dataset name for explore and find")
	fs.StringVar(&o.File, "file", "", "Archive to analyze")
	fs.Float64Var(&o.DurationMin, "duration_min", 0, "Minimum duration in seconds for find")
	fs.Float64Var(&o.DurationMax, "duration_max", 0, "Maximum duration in seconds for find (0 = no limit)")
	fs.StringVar(&o.Output, "output", "", "Output path for plot (.png or .html) and export (.csv)")
	fs.StringVar(&o.DB, "db", "", "SQLite catalog: scan stores into it, find queries it")
	fs.BoolVar(&o.Version, "version", false, "Print version and exit")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: explorer [options]\n\n")
		fmt.Fprintf(stderr, "Motion dataset explorer\n\nOptions:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  explorer -action summary -data_root g1\n")
		fmt.Fprintf(stderr, "  explorer -action find -dataset ACCAD -duration_min 2 -duration_max 5\n")
		fmt.Fprintf(stderr, "  explorer -action scan -db catalog.db\n")
	}
	err := fs.Parse(args)
	return o, fs, err
}

func main() {
	opts, fs, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		os.Exit(2)
	}
	if opts.Version {
		fmt.Println(version.String("explorer"))
		return
	}

	cfg, err := config.Resolve(opts.ConfigPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, cfg, os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			fs.Usage()
			os.Exit(1)
		}
		log.Fatalf("explorer: %v", err)
	}
}

func run(ctx context.Context, o Options, cfg *config.Config, w io.Writer) error {
	root := o.DataRoot
	if root == "" {
		root = cfg.GetDataRoot()
	}
	s := dataset.NewScanner()

	switch o.Action {
	case "scan":
		c, err := s.Scan(ctx, root)
		if err != nil {
			return err
		}
		printScan(w, c)
		if o.DB == "" {
			return nil
		}
		return saveScan(ctx, o.DB, c, w)

	case "summary":
		c, err := s.Scan(ctx, root)
		if err != nil {
			return err
		}
		printSummary(w, dataset.Summarize(c, cfg.GetAssumedFPS()))
		return nil

	case "explore":
		if o.Dataset == "" {
			return fmt.Errorf("%w: -dataset is required for explore", errUsage)
		}
		d, err := s.ScanDataset(ctx, root, o.Dataset)
		if err != nil {
			return err
		}
		printExploration(w, dataset.Explore(d, cfg.GetExploreSubjects()))
		return nil

	case "analyze":
		if o.File == "" {
			return fmt.Errorf("%w: -file is required for analyze", errUsage)
		}
		rec, err := motion.Load(o.File)
		if err != nil {
			return err
		}
		printAnalysis(w, rec, motion.Analyze(rec))
		return nil

	case "find":
		if o.Dataset == "" {
			return fmt.Errorf("%w: -dataset is required for find", errUsage)
		}
		r := durationRange(o.DurationMin, o.DurationMax)
		matches, err := find(ctx, s, root, o, r)
		if err != nil {
			return err
		}
		printMatches(w, o.Dataset, r, matches)
		return nil

	case "plot":
		c, err := s.Scan(ctx, root)
		if err != nil {
			return err
		}
		out := o.Output
		if out == "" {
			out = chart.DefaultPath
		}
		if err := chart.Save(out, chart.FromSummary(dataset.Summarize(c, cfg.GetAssumedFPS()))); err != nil {
			return err
		}
		fmt.Fprintf(w, "Chart saved to %s\n", out)
		return nil

	case "export":
		c, err := s.Scan(ctx, root)
		if err != nil {
			return err
		}
		out := o.Output
		if out == "" {
			out = defaultExport
		}
		return exportCSV(out, c, w)

	case "check":
		return check(ctx, s, root, cfg.GetDOFLimit(), w)
	}
	return fmt.Errorf("%w: unknown action %q", errUsage, o.Action)
}

// durationRange turns the flag values into a query range; a max of zero or
// less means no upper bound.
func durationRange(lo, hi float64) dataset.DurationRange {
	r := dataset.AnyDuration
	r.Min = lo
	if hi > 0 {
		r.Max = hi
	}
	return r
}

func find(ctx context.Context, s *dataset.Scanner, root string, o Options, r dataset.DurationRange) ([]dataset.Match, error) {
	if o.DB != "" {
		store, err := catalog.Open(o.DB)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.FindByDuration(ctx, o.Dataset, r)
	}
	d, err := s.ScanDataset(ctx, root, o.Dataset)
	if err != nil {
		return nil, err
	}
	return dataset.FindByDuration(d, r), nil
}

func saveScan(ctx context.Context, path string, c *dataset.Catalog, w io.Writer) error {
	store, err := catalog.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := store.SaveScan(ctx, c)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Saved scan %s to %s\n", id, path)

	counts, err := store.CategoryCounts(ctx)
	if err != nil {
		return err
	}
	for _, name := range classify.Default.Names() {
		if n := counts[name]; n > 0 {
			fmt.Fprintf(w, "  %-10s %6d\n", name, n)
		}
	}
	return nil
}

func exportCSV(path string, c *dataset.Catalog, w io.Writer) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export: %w", err)
	}
	n, err := dataset.ExportCSV(f, c)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	fmt.Fprintf(w, "Exported %d records to %s\n", n, path)
	return nil
}

// check loads every archive under root and reports joint angles outside
// [-limit, limit]. Unreadable archives are reported and skipped.
func check(ctx context.Context, s *dataset.Scanner, root string, limit float64, w io.Writer) error {
	paths, err := s.WalkArchives(ctx, root)
	if err != nil {
		return err
	}
	var bad, failed int
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec, err := motion.Load(p)
		if err != nil {
			monitoring.Warnf("skipping %s: %v", p, err)
			failed++
			continue
		}
		if v := motion.CheckRange(rec, limit); v != nil {
			bad++
			fmt.Fprintf(w, "%s: %d values outside ±%.3f (first at frame %d, joint %d)\n",
				p, v.Count, limit, v.FirstFrame, v.FirstJoint)
		}
	}
	fmt.Fprintf(w, "Checked %d archives: %d out of range, %d unreadable\n", len(paths), bad, failed)
	return nil
}
