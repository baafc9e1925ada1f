// Command quickview gives a fast look at a motion dataset tree: a random
// sample, a per-dataset listing, a frame preview and short-record lookup.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/banshee-data/motion.report/internal/config"
	"github.com/banshee-data/motion.report/internal/dataset"
	"github.com/banshee-data/motion.report/internal/motion"
	"github.com/banshee-data/motion.report/internal/version"
)

var errUsage = errors.New("usage")

// Options holds the command-line flags.
type Options struct {
	Action      string
	DataRoot    string
	ConfigPath  string
	Dataset     string
	File        string
	MaxDuration float64
	Seed        uint64
	Version     bool
}

func parseFlags(args []string, stderr io.Writer) (Options, *flag.FlagSet, error) {
	var o Options
	fs := flag.NewFlagSet("quickview", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&o.Action, "action", "overview", "overview (or stats), list, preview or short")
	fs.StringVar(&o.DataRoot, "data_root", "", "Dataset root (default from config, else g1)")
	fs.StringVar(&o.ConfigPath, "config", "", "JSON config file (default "+config.DefaultConfigPath+" when present)")
	fs.StringVar(&o.Dataset, "dataset", "", "Dataset name for list and short")
	fs.StringVar(&o.File, "file", "", "Archive to preview")
	fs.Float64Var(&o.MaxDuration, "max_duration", 5, "Longest duration in seconds for short")
	fs.Uint64Var(&o.Seed, "seed", 0, "Sampling seed for overview (0 = time based)")
	fs.BoolVar(&o.Version, "version", false, "Print version and exit")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: quickview [options]\n\nOptions:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  quickview -action list -dataset CMU\n")
		fmt.Fprintf(stderr, "  quickview -action short -dataset ACCAD -max_duration 3\n")
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
		fmt.Println(version.String("quickview"))
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
		log.Fatalf("quickview: %v", err)
	}
}

func run(ctx context.Context, o Options, cfg *config.Config, w io.Writer) error {
	root := o.DataRoot
	if root == "" {
		root = cfg.GetDataRoot()
	}
	s := dataset.NewScanner()

	switch o.Action {
	case "overview", "stats":
		names, err := s.Datasets(root)
		if err != nil {
			return fmt.Errorf("list datasets: %w", err)
		}
		seed := o.Seed
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		entries, err := s.Sample(ctx, root, cfg.GetSampleDatasets(), rand.New(rand.NewPCG(seed, seed)))
		if err != nil {
			return err
		}
		printOverview(w, root, names, entries)
		return nil

	case "list":
		if o.Dataset == "" {
			return fmt.Errorf("%w: -dataset is required for list", errUsage)
		}
		l, err := s.ListContents(ctx, root, o.Dataset, cfg.GetListSubjects())
		if err != nil {
			return err
		}
		printListing(w, l)
		return nil

	case "preview":
		if o.File == "" {
			return fmt.Errorf("%w: -file is required for preview", errUsage)
		}
		rec, err := motion.Load(o.File)
		if err != nil {
			return err
		}
		printPreview(w, rec, motion.Preview(rec, cfg.GetPreviewFrames()))
		return nil

	case "short":
		if o.Dataset == "" {
			return fmt.Errorf("%w: -dataset is required for short", errUsage)
		}
		if o.MaxDuration <= 0 {
			return fmt.Errorf("%w: -max_duration must be positive", errUsage)
		}
		d, err := s.ScanDataset(ctx, root, o.Dataset)
		if err != nil {
			return err
		}
		printShort(w, o.Dataset, o.MaxDuration, dataset.Short(d, o.MaxDuration))
		return nil
	}
	return fmt.Errorf("%w: unknown action %q", errUsage, o.Action)
}
