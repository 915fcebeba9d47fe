package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/robertftenbosch/tenbio/internal/stats"
)

func newInspectCmd(opts *rootOptions) *cobra.Command {
	var (
		asJSON    bool
		threshold int
		minRun    int
	)

	cmd := &cobra.Command{
		Use:   "inspect <read-file>",
		Short: "Decode a read file and report its statistics",
		Long: `Decode a FASTQ or AB1 file and report base composition, quality
statistics and stretches of low-quality calls.

Example:
  seqverify inspect clone3.ab1
  seqverify inspect reads.fastq.gz --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := opts.logger(cmd)
			im, err := opts.importer()
			if err != nil {
				return err
			}

			filename := args[0]
			content, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", filename, err)
			}
			logger.Printf("read %s (%s)", filename, humanize.Bytes(uint64(len(content))))

			decoded, err := im.Decode(filename, content)
			if err != nil {
				return err
			}
			logger.Printf("decoded %s read %q", decoded.Read.Format(), decoded.Read.Name())

			report := stats.FromRead(decoded, stats.ReportOptions{Threshold: threshold, MinRunLength: minRun})

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}

			fmt.Fprintf(out, "Read:     %s\n", report.Name)
			fmt.Fprintf(out, "Format:   %s\n", report.Format)
			fmt.Fprintf(out, "Length:   %s bp\n", humanize.Comma(int64(report.Sequence.Length)))
			if extra := report.ExtraReads(); extra > 0 {
				fmt.Fprintf(out, "Ignored:  %s further %s in file\n", humanize.Comma(int64(extra)), plural(extra, "read", "reads"))
			}
			fmt.Fprintf(out, "GC:       %.1f%%\n", report.Sequence.GCContent*100)
			fmt.Fprintf(out, "N calls:  %d\n", report.Sequence.NCount)
			fmt.Fprintln(out)

			q := report.Quality
			fmt.Fprintln(out, "Quality:")
			fmt.Fprintf(out, "  Mean:     %.1f\n", q.Mean)
			fmt.Fprintf(out, "  Median:   %d\n", q.Median)
			fmt.Fprintf(out, "  Range:    %d-%d\n", q.MinScore, q.MaxScore)
			fmt.Fprintf(out, "  Q20+:     %.1f%%\n", report.Distribution.AcceptableRatio()*100)
			fmt.Fprintf(out, "  Q30+:     %.1f%%\n", q.HighQualityRatio*100)
			fmt.Fprintf(out, "  Category: %s\n", q.Category)
			fmt.Fprintf(out, "  Expected errors: %.2f\n", report.ExpectedErrors)

			if tr := report.Trace; tr != nil {
				fmt.Fprintln(out)
				fmt.Fprintf(out, "Trace:    %d tags, %d %s of %s points, peak signal %s\n",
					tr.Tags, tr.Channels, plural(tr.Channels, "channel", "channels"),
					humanize.Comma(int64(tr.Points)), humanize.Comma(int64(tr.PeakSignal)))
			}

			if len(report.LowQualityRuns) > 0 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, "Low-quality runs:")
				for _, run := range report.LowQualityRuns {
					fmt.Fprintf(out, "  %d-%d (%d bp)\n", run.Start+1, run.End, run.Len())
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	cmd.Flags().IntVar(&threshold, "threshold", stats.DefaultLowQualityThreshold, "quality below which a call counts as low")
	cmd.Flags().IntVar(&minRun, "min-run", stats.DefaultMinRunLength, "shortest low-quality run to report")

	return cmd
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
