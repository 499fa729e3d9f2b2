package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"texturematch/atlas"
	"texturematch/utils"
)

func newLocateCommand(ctx *commandContext) *cobra.Command {
	var (
		small  string
		atlasD string
		output string
		rows   int
		cols   int
	)

	cmd := &cobra.Command{
		Use:   "locate ID...",
		Short: "Find the atlas cell that best matches each small thumbnail",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.configCopy()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("small") {
				cfg.Atlas.SmallDir = small
			}
			if cmd.Flags().Changed("atlas") {
				cfg.Atlas.AtlasDir = atlasD
			}
			if cmd.Flags().Changed("output") {
				cfg.Atlas.Output = output
			}
			if cmd.Flags().Changed("rows") {
				cfg.Atlas.Rows = rows
			}
			if cmd.Flags().Changed("cols") {
				cfg.Atlas.Cols = cols
			}
			if err := applyConfigChanges(&cfg); err != nil {
				return err
			}

			results, err := atlas.LocateIDs(args, atlas.LocateOptions{
				SmallDir:   cfg.Atlas.SmallDir,
				AtlasDir:   cfg.Atlas.AtlasDir,
				Grid:       cfg.Atlas.Grid(),
				Extensions: cfg.Atlas.Extensions,
				OutputPath: cfg.Atlas.Output,
			})
			if err != nil {
				return err
			}

			located := printLocateResults(cmd.OutOrStdout(), results)
			if located == 0 {
				return errors.New("could not locate any of the requested thumbnails")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&small, "small", "", "Folder of <id>.png thumbnails (default small)")
	cmd.Flags().StringVar(&atlasD, "atlas", "", "Folder of atlas images (default tiny)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Optional report of located thumbnails")
	cmd.Flags().IntVar(&rows, "rows", 0, "Grid rows per atlas")
	cmd.Flags().IntVar(&cols, "cols", 0, "Grid columns per atlas")
	return cmd
}

func printLocateResults(out io.Writer, results []atlas.LocateResult) int {
	located := 0
	rows := make([][]string, 0, len(results))
	for _, result := range results {
		switch {
		case result.Err != nil:
			rows = append(rows, []string{result.ID, "error: " + result.Err.Error(), "", "", ""})
		case !result.Found:
			rows = append(rows, []string{result.ID, "no match", "", "", ""})
		default:
			located++
			origin := result.Match.Point()
			rows = append(rows, []string{
				result.ID,
				result.Match.Atlas,
				strconv.Itoa(origin.X),
				strconv.Itoa(origin.Y),
				fmt.Sprintf("%.2f", result.Match.Error),
			})
		}
	}

	fmt.Fprintln(out, utils.RenderTable(
		[]string{"ID", "Atlas", "Pixel X", "Pixel Y", "MSE"},
		rows,
		[]utils.ColumnAlignment{utils.AlignLeft, utils.AlignLeft, utils.AlignRight, utils.AlignRight, utils.AlignRight},
	))
	return located
}
