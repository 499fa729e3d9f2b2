package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"texturematch/config"
	"texturematch/database"
	"texturematch/scanner"
	"texturematch/types"
	"texturematch/utils"
)

// indexFlags are shared by index and match, which both need the database
type indexFlags struct {
	reference  string
	cache      string
	crop       string
	hashSize   int
	force      bool
	checkStale bool
}

func (f *indexFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.reference, "reference", "r", "", "Folder of correctly named reference textures")
	cmd.Flags().StringVar(&f.cache, "cache", "", "Cache file path (default <reference>/hash_database.cache)")
	cmd.Flags().StringVar(&f.crop, "crop", "", "Crop box left,top,right,bottom applied before hashing")
	cmd.Flags().IntVar(&f.hashSize, "hash-size", 0, "Fingerprint grid size")
	cmd.Flags().BoolVarP(&f.force, "force", "f", false, "Ignore any existing cache and rebuild")
	cmd.Flags().BoolVar(&f.checkStale, "check-stale", false, "Rebuild when the reference listing changed since the cache was written")
}

func (f *indexFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("reference") {
		cfg.Matcher.ReferenceDir = f.reference
	}
	if cmd.Flags().Changed("crop") {
		cfg.Matcher.Crop = f.crop
	}
	if cmd.Flags().Changed("hash-size") {
		cfg.Matcher.HashSize = f.hashSize
	}
	if cmd.Flags().Changed("check-stale") {
		cfg.Matcher.CheckStale = f.checkStale
	}
}

func (f *indexFlags) scanOptions(cfg *config.Config, debug bool) (scanner.ScanOptions, error) {
	if cfg.Matcher.ReferenceDir == "" {
		return scanner.ScanOptions{}, errors.New("reference folder is required (--reference or matcher.reference_dir)")
	}

	derivation, err := cfg.Matcher.Derivation()
	if err != nil {
		return scanner.ScanOptions{}, err
	}

	cachePath := cfg.Matcher.CachePath()
	if f.cache != "" {
		if cachePath, err = config.ExpandPath(f.cache); err != nil {
			return scanner.ScanOptions{}, fmt.Errorf("resolve cache path: %w", err)
		}
	}

	return scanner.ScanOptions{
		FolderPath:    cfg.Matcher.ReferenceDir,
		CachePath:     cachePath,
		Derivation:    derivation,
		Extensions:    cfg.Matcher.Extensions,
		ForceRewrite:  f.force,
		CheckStale:    cfg.Matcher.CheckStale,
		ProgressEvery: cfg.Matcher.ProgressEvery,
		DebugMode:     debug,
	}, nil
}

func newIndexCommand(ctx *commandContext) *cobra.Command {
	var flags indexFlags

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build or refresh the fingerprint cache for a reference folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.configCopy()
			if err != nil {
				return err
			}
			flags.apply(cmd, &cfg)
			if err := applyConfigChanges(&cfg); err != nil {
				return err
			}

			_, stats, err := buildDatabase(&cfg, &flags, ctx.debugMode())
			if err != nil {
				return err
			}

			printBuildStats(cmd.OutOrStdout(), stats)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func buildDatabase(cfg *config.Config, flags *indexFlags, debug bool) (*types.HashDatabase, scanner.BuildStats, error) {
	options, err := flags.scanOptions(cfg, debug)
	if err != nil {
		return nil, scanner.BuildStats{}, err
	}
	return scanner.BuildHashDatabase(options)
}

func printBuildStats(out io.Writer, stats scanner.BuildStats) {
	rows := [][]string{
		{"Images scanned", utils.FormatCount(stats.Scanned)},
		{"Images indexed", utils.FormatCount(stats.Indexed)},
		{"Unreadable", utils.FormatCount(stats.Skipped)},
		{"Distinct fingerprints", utils.FormatCount(stats.DistinctKeys)},
		{"Loaded from cache", yesNo(stats.FromCache)},
		{"Cache file", stats.CachePath},
	}
	if cacheStats, err := database.GetCacheStats(stats.CachePath); err == nil {
		rows = append(rows,
			[]string{"Cache size", utils.FormatBytes(cacheStats.SizeBytes)},
			[]string{"Cache derivation", cacheStats.Meta.Derivation},
		)
	}

	fmt.Fprintln(out, utils.RenderTable([]string{"Index", "Value"}, rows, []utils.ColumnAlignment{utils.AlignLeft, utils.AlignRight}))
}
