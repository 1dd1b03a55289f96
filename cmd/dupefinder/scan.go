package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adaw/core-tools/internal/cache"
	"github.com/adaw/core-tools/internal/config"
	"github.com/adaw/core-tools/internal/controller"
	"github.com/adaw/core-tools/internal/deleter"
	"github.com/adaw/core-tools/internal/matcher"
	"github.com/adaw/core-tools/internal/phash"
	"github.com/adaw/core-tools/internal/progress"
	"github.com/adaw/core-tools/internal/report"
	"github.com/adaw/core-tools/internal/selector"
	"github.com/adaw/core-tools/internal/types"
)

// scanOptions holds CLI flags for the scan command.
type scanOptions struct {
	method       string
	algo         string
	minSizeStr   string
	maxSizeStr   string
	extensions   string
	imageExts    string
	afterStr     string
	beforeStr    string
	threshold    int
	workers      int
	cacheFile    string
	configFile   string
	reportFile   string
	keepStrategy string
	doDelete     bool
	dryRun       bool
	noProgress   bool
}

// newScanCmd creates the scan subcommand.
func newScanCmd() *cobra.Command {
	opts := &scanOptions{}

	cmd := &cobra.Command{
		Use:   "scan [roots...]",
		Short: "Scan directories for duplicate files",
		Long: `Scans the given directories and groups duplicate files.

Methods:
  content     exact duplicates via quick-hash + full-hash (default)
  name        files with the same size and case-folded name
  perceptual  visually similar images (DCT perception hash)

Use --keep with --delete to remove the non-kept members of every group,
or --dry-run to preview. --report writes a JSON (.json) or text (.txt)
report of the results.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configFile)
			if err != nil {
				return err
			}
			applyConfig(cmd, opts, cfg)
			return runScan(args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.method, "method", "M", "content", "Match method: content, name, perceptual")
	cmd.Flags().StringVar(&opts.algo, "algo", "sha256", "Content digest algorithm: sha256, md5")
	cmd.Flags().StringVarP(&opts.minSizeStr, "min-size", "m", "", "Minimum file size (e.g. 100, 1K, 10M)")
	cmd.Flags().StringVar(&opts.maxSizeStr, "max-size", "", "Maximum file size")
	cmd.Flags().StringVarP(&opts.extensions, "ext", "e", "", "Comma-separated extension allow-list (e.g. .jpg,.png)")
	cmd.Flags().StringVar(&opts.imageExts, "image-ext", "", "Extensions treated as images for perceptual matching")
	cmd.Flags().StringVar(&opts.afterStr, "modified-after", "", "Only files modified on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.beforeStr, "modified-before", "", "Only files modified on or before this date (YYYY-MM-DD)")
	cmd.Flags().IntVarP(&opts.threshold, "threshold", "t", controller.DefaultThreshold, "Perceptual Hamming-distance threshold")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", matcher.DefaultWorkers, "Number of hashing workers")
	cmd.Flags().StringVar(&opts.cacheFile, "cache-file", "", "Path to full-hash cache file (enables caching)")
	cmd.Flags().StringVar(&opts.configFile, "config", config.DefaultPath(), "Path to YAML defaults file")
	cmd.Flags().StringVarP(&opts.reportFile, "report", "r", "", "Write a report to this file (.json or .txt)")
	cmd.Flags().StringVarP(&opts.keepStrategy, "keep", "k", "none", "Keeper strategy: newest, oldest, shortest-path, none")
	cmd.Flags().BoolVar(&opts.doDelete, "delete", false, "Delete the non-kept members of every group")
	cmd.Flags().BoolVarP(&opts.dryRun, "dry-run", "n", false, "Preview deletions without executing")
	cmd.Flags().BoolVar(&opts.noProgress, "no-progress", false, "Disable progress output")

	return cmd
}

// applyConfig overlays file defaults under unset flags.
func applyConfig(cmd *cobra.Command, opts *scanOptions, cfg config.Config) {
	if !cmd.Flags().Changed("method") && cfg.Method != "" {
		opts.method = cfg.Method
	}
	if !cmd.Flags().Changed("algo") && cfg.Algo != "" {
		opts.algo = cfg.Algo
	}
	if !cmd.Flags().Changed("workers") && cfg.Workers > 0 {
		opts.workers = cfg.Workers
	}
	if !cmd.Flags().Changed("threshold") && cfg.Threshold > 0 {
		opts.threshold = cfg.Threshold
	}
	if opts.minSizeStr == "" {
		opts.minSizeStr = cfg.MinSize
	}
	if opts.maxSizeStr == "" {
		opts.maxSizeStr = cfg.MaxSize
	}
	if opts.cacheFile == "" {
		opts.cacheFile = cfg.CacheFile
	}
	if opts.imageExts == "" && len(cfg.ImageExtensions) > 0 {
		opts.imageExts = strings.Join(cfg.ImageExtensions, ",")
	}
}

// runScan executes the scan pipeline and the optional report/delete steps.
func runScan(roots []string, opts *scanOptions) error {
	method, err := parseMethod(opts.method)
	if err != nil {
		return err
	}
	minSize, err := parseSize(opts.minSizeStr)
	if err != nil {
		return fmt.Errorf("invalid --min-size: %w", err)
	}
	maxSize, err := parseSize(opts.maxSizeStr)
	if err != nil {
		return fmt.Errorf("invalid --max-size: %w", err)
	}
	after, err := parseDate(opts.afterStr)
	if err != nil {
		return fmt.Errorf("invalid --modified-after: %w", err)
	}
	before, err := parseDate(opts.beforeStr)
	if err != nil {
		return fmt.Errorf("invalid --modified-before: %w", err)
	}

	hashCache, err := cache.Open(opts.cacheFile)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer func() { _ = hashCache.Close() }()

	bar := progress.New(!opts.noProgress)
	ctl := controller.New(phash.New(), hashCache)

	done := make(chan struct{})
	var (
		groups []types.DuplicateGroup
		stats  types.ScanStats
	)
	req := controller.Request{
		Roots:           roots,
		Method:          method,
		Algo:            matcher.Algo(opts.algo),
		MinSize:         minSize,
		MaxSize:         maxSize,
		Extensions:      parseExtensions(opts.extensions),
		DateFrom:        after,
		DateTo:          before,
		ImageExtensions: parseExtensions(opts.imageExts),
		Threshold:       opts.threshold,
		Workers:         opts.workers,
		OnProgress:      bar.Update,
		OnComplete: func(g []types.DuplicateGroup, s types.ScanStats) {
			groups, stats = g, s
			close(done)
		},
	}
	if err := ctl.Start(req); err != nil {
		return err
	}

	// Ctrl-C cancels cooperatively; the scan still reports partial results.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		ctl.Cancel()
	}()

	<-done
	bar.Finish(stats)

	printGroups(groups)

	if opts.reportFile != "" {
		if err := writeReport(opts.reportFile, groups, stats, roots); err != nil {
			return err
		}
	}

	if opts.doDelete || opts.dryRun {
		strategy := selector.Strategy(opts.keepStrategy)
		paths := selector.DeletionSet(groups, strategy)
		res := deleter.Run(paths, opts.dryRun)
		for _, derr := range res.Errors {
			fmt.Fprintf(os.Stderr, "error: %v\n", derr)
		}
		prefix := ""
		if opts.dryRun {
			prefix = "[dry run] "
		}
		fmt.Printf("%sDeleted %d/%d files\n", prefix, res.Deleted, len(paths))
	}

	return nil
}

func printGroups(groups []types.DuplicateGroup) {
	for i, g := range groups {
		fmt.Printf("Group %d: %d files, %d bytes wasted (%s)\n", i+1, g.Count, g.WastedBytes, g.Method)
		for _, p := range g.Paths() {
			fmt.Printf("  %s\n", p)
		}
	}
}

func writeReport(path string, groups []types.DuplicateGroup, stats types.ScanStats, roots []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer func() { _ = f.Close() }()
	return report.Write(f, report.FormatForPath(path), version, groups, stats, roots)
}
