// Command actions classifies motion archives by the action keywords in
// their filenames.
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

	"github.com/banshee-data/motion.report/internal/classify"
	"github.com/banshee-data/motion.report/internal/config"
	"github.com/banshee-data/motion.report/internal/dataset"
	"github.com/banshee-data/motion.report/internal/version"
)

// Filenames the analyze report lists per category, and for unknown.
const (
	examplesPerGroup   = 3
	examplesPerUnknown = 5
)

// topActions is how many action names the analyze report lists.
const topActions = 15

var errUsage = errors.New("usage")

// Options holds the command-line flags.
type Options struct {
	Action     string
	DataRoot   string
	ConfigPath string
	Dataset    string
	Keyword    string
	Version    bool
}

func parseFlags(args []string, stderr io.Writer) (Options, *flag.FlagSet, error) {
	var o Options
	fs := flag.NewFlagSet("actions", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&o.Action, "action", "list", "analyze, list (or stats) or search (or find)")
	fs.StringVar(&o.DataRoot, "data_root", "", "Dataset root (default from config, else g1)")
	fs.StringVar(&o.ConfigPath, "config", "", "JSON config file (default "+config.DefaultConfigPath+" when present)")
	fs.StringVar(&o.Dataset, "dataset", "", "Dataset to analyze, or to restrict a search to")
	fs.StringVar(&o.Keyword, "keyword", "", "Filename keyword for search")
	fs.BoolVar(&o.Version, "version", false, "Print version and exit")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: actions [options]\n\nOptions:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  actions -action analyze -dataset KIT\n")
		fmt.Fprintf(stderr, "  actions -action search -keyword salsa\n")
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
		fmt.Println(version.String("actions"))
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
		log.Fatalf("actions: %v", err)
	}
}

func run(ctx context.Context, o Options, cfg *config.Config, w io.Writer) error {
	root := o.DataRoot
	if root == "" {
		root = cfg.GetDataRoot()
	}
	s := dataset.NewScanner()

	switch o.Action {
	case "analyze":
		if o.Dataset == "" {
			return fmt.Errorf("%w: -dataset is required for analyze", errUsage)
		}
		rep, err := classify.Default.AnalyzeDataset(s, root, o.Dataset)
		if err != nil {
			return err
		}
		printReport(w, o.Dataset, rep)
		return nil

	case "list", "stats":
		rows, err := classify.Default.Overview(ctx, s, root, cfg.GetOverviewSample())
		if err != nil {
			return err
		}
		printOverview(w, rows, cfg.GetOverviewSample())
		return nil

	case "search", "find":
		if o.Keyword == "" {
			return fmt.Errorf("%w: -keyword is required for search", errUsage)
		}
		hits, err := classify.Search(ctx, s, root, o.Keyword, o.Dataset)
		if err != nil {
			return err
		}
		printHits(w, o.Keyword, hits, cfg.GetSearchLimit())
		return nil
	}
	return fmt.Errorf("%w: unknown action %q", errUsage, o.Action)
}
