package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"filematch/internal/match"
	"filematch/internal/render"
	"filematch/internal/scan"
)

// newDupesCmd creates the dupes subcommand.
// Examples:
//
//	filematch dupes ./photos
//	filematch dupes ./photos --format xlsx
//	filematch dupes ./photos --format csv -o dupes.csv
func newDupesCmd() *cobra.Command {
	options := commonOptions{}
	noPrefilter := false

	dupesCmd := &cobra.Command{
		Use:   "dupes <directory>",
		Short: "Find files with identical content within one directory tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := options.resolve()
			if err != nil {
				return err
			}

			root, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("failed to get absolute path: %w", err)
			}

			scanFn := scan.ScanCandidates
			if noPrefilter {
				scanFn = scan.Scan
			}

			result, err := scanFn(cmd.Context(), root, options.scanOptions(cfg))
			if err != nil {
				return err
			}
			reportSkipped(result)

			rep := match.FindDuplicates(result.Index)
			if rep.Empty() {
				fmt.Fprintln(cmd.OutOrStdout(), "no duplicate files found")
				return nil
			}

			outPath := options.output
			if outPath == "" {
				outPath = defaultOutput(root, "same_file_in", options.format)
			}

			labels := render.Labels{RootA: root}
			if err := options.writeReport(cmd, rep, labels, outPath); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "found %d duplicate groups (%d files)\n", len(rep.Groups), rep.TotalFiles())
			if options.format != formatConsole {
				fmt.Fprintf(cmd.OutOrStdout(), "output written to %s\n", outPath)
			}
			return nil
		},
	}

	options.bindFlags(dupesCmd)
	dupesCmd.Flags().BoolVar(&noPrefilter, "no-prefilter", false, "fully fingerprint every file instead of pre-filtering by size and head probe")

	return dupesCmd
}
