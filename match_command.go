package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"texturematch/matcher"
	"texturematch/utils"
)

func newMatchCommand(ctx *commandContext) *cobra.Command {
	var index indexFlags
	var (
		dump          string
		output        string
		verify        bool
		maxDistance   int
		progressEvery int
	)

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Match a dump folder against the reference fingerprints and write textures.ini",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.configCopy()
			if err != nil {
				return err
			}
			index.apply(cmd, &cfg)
			if cmd.Flags().Changed("dump") {
				cfg.Matcher.DumpDir = dump
			}
			if cmd.Flags().Changed("output") {
				cfg.Matcher.Output = output
			}
			if cmd.Flags().Changed("verify") {
				cfg.Matcher.Verify = verify
			}
			if cmd.Flags().Changed("max-distance") {
				cfg.Matcher.MaxDistance = maxDistance
			}
			if cmd.Flags().Changed("progress-every") {
				cfg.Matcher.ProgressEvery = progressEvery
			}
			if err := applyConfigChanges(&cfg); err != nil {
				return err
			}
			if cfg.Matcher.DumpDir == "" {
				return errors.New("dump folder is required (--dump or matcher.dump_dir)")
			}

			db, _, err := buildDatabase(&cfg, &index, ctx.debugMode())
			if err != nil {
				return err
			}

			derivation, err := cfg.Matcher.Derivation()
			if err != nil {
				return err
			}

			summary, err := matcher.MatchFolder(db, matcher.MatchOptions{
				DumpDir:       cfg.Matcher.DumpDir,
				ReferenceDir:  cfg.Matcher.ReferenceDir,
				OutputPath:    cfg.Matcher.Output,
				Derivation:    derivation,
				Extensions:    cfg.Matcher.Extensions,
				Verify:        cfg.Matcher.Verify,
				MaxDistance:   matcher.DistanceLimit(cfg.Matcher.MaxDistance),
				ProgressEvery: cfg.Matcher.ProgressEvery,
				DebugMode:     ctx.debugMode(),
			})
			if err != nil {
				if errors.Is(err, matcher.ErrEmptyDatabase) {
					return fmt.Errorf("%w: check the reference folder %s", err, cfg.Matcher.ReferenceDir)
				}
				return err
			}

			printMatchSummary(cmd.OutOrStdout(), summary)
			return nil
		},
	}

	index.register(cmd)
	cmd.Flags().StringVarP(&dump, "dump", "d", "", "Folder of hash-named texture dumps")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Report path (default textures.ini)")
	cmd.Flags().BoolVar(&verify, "verify", false, "Write query-over-reference composites to <output dir>/temp")
	cmd.Flags().IntVar(&maxDistance, "max-distance", -1, "Drop matches farther than this many bits (-1 keeps all)")
	cmd.Flags().IntVar(&progressEvery, "progress-every", 0, "Progress line interval")
	return cmd
}

func printMatchSummary(out io.Writer, summary matcher.MatchSummary) {
	rows := [][]string{
		{"Files scanned", utils.FormatCount(summary.Scanned)},
		{"Matched", utils.FormatCount(summary.Matched)},
		{"Exact matches", utils.FormatCount(summary.ExactMatches)},
		{"Over max distance", utils.FormatCount(summary.Rejected)},
		{"Unreadable", utils.FormatCount(summary.Skipped)},
		{"Unique entries", utils.FormatCount(summary.UniqueEntries)},
		{"Mean distance", fmt.Sprintf("%.2f", summary.MeanDistance)},
		{"Distance std dev", fmt.Sprintf("%.2f", summary.StdDevDistance)},
	}
	if summary.Composites > 0 {
		rows = append(rows, []string{"Composites", utils.FormatCount(summary.Composites)})
	}
	if summary.ReportPath != "" {
		rows = append(rows, []string{"Report", summary.ReportPath})
	}

	fmt.Fprintln(out, utils.RenderTable([]string{"Match", "Value"}, rows, []utils.ColumnAlignment{utils.AlignLeft, utils.AlignRight}))
}
