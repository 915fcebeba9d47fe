package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/robertftenbosch/tenbio/internal/construct"
	"github.com/robertftenbosch/tenbio/internal/verify"
)

func newVerifyCmd(opts *rootOptions) *cobra.Command {
	var (
		partsFile     string
		samFile       string
		refName       string
		asJSON        bool
		showAlignment bool
	)

	cmd := &cobra.Command{
		Use:   "verify <read-file> --parts <parts-file>",
		Short: "Align a read against construct parts",
		Long: `Decode a FASTQ or AB1 file and align the read end to end against the
concatenated parts of a construct, reporting overall and per-part similarity.

Example:
  seqverify verify clone3.ab1 --parts design.json
  seqverify verify clone3.ab1 --parts design.fasta --sam clone3.sam`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := opts.logger(cmd)
			im, err := opts.importer()
			if err != nil {
				return err
			}

			parts, err := construct.ReadFile(partsFile)
			if err != nil {
				return err
			}
			if parts == nil {
				parts = []construct.Part{}
			}
			logger.Printf("loaded %d %s from %s", len(parts), plural(len(parts), "part", "parts"), partsFile)

			filename := args[0]
			content, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", filename, err)
			}
			logger.Printf("read %s (%s)", filename, humanize.Bytes(uint64(len(content))))

			resp, detail, err := im.ImportDetailed(cmd.Context(), verify.Request{
				Filename: filename,
				Content:  content,
				Parts:    parts,
			})
			if err != nil {
				return err
			}
			v := detail.Verification
			logger.Printf("aligned %s x %s bases, score %d",
				humanize.Comma(int64(v.Alignment.QueryLength)),
				humanize.Comma(int64(v.Alignment.ReferenceLength)),
				v.Alignment.Score)

			if samFile != "" {
				if err := writeSAMFile(samFile, refName, detail); err != nil {
					return err
				}
				logger.Printf("wrote %s", samFile)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			}

			pr, al := resp.ParseResult, resp.Alignment
			fmt.Fprintf(out, "Read:       %s (%s, %s bp, mean Q%.1f)\n",
				pr.ReadName, pr.Format, humanize.Comma(int64(pr.SequenceLength)), pr.AvgQuality)
			fmt.Fprintf(out, "Similarity: %.1f%%\n", al.OverallSimilarity)
			fmt.Fprintf(out, "Coverage:   %.1f%%\n", al.CoveragePercent)
			fmt.Fprintf(out, "Matching:   %s of %s reference bases\n",
				humanize.Comma(int64(al.MatchingBases)), humanize.Comma(int64(al.ReferenceLength)))
			fmt.Fprintf(out, "CIGAR:      %s\n", v.Alignment.CIGAR())
			fmt.Fprintln(out)

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PART\tTYPE\tLENGTH\tSIMILARITY")
			for _, p := range al.PartResults {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%.1f%%\n", p.Name, p.Type, p.Length, p.Similarity)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if showAlignment {
				fmt.Fprintln(out)
				fmt.Fprintln(out, v.Alignment.Format())
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&partsFile, "parts", "p", "", "construct parts (JSON or FASTA)")
	cmd.Flags().StringVar(&samFile, "sam", "", "write the alignment as SAM to this file")
	cmd.Flags().StringVar(&refName, "ref-name", verify.DefaultReferenceName, "reference name in SAM output")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	cmd.Flags().BoolVar(&showAlignment, "show-alignment", false, "print the aligned rows")
	cmd.MarkFlagRequired("parts")

	return cmd
}

func writeSAMFile(path, refName string, detail *verify.Detail) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := verify.WriteSAM(f, refName, detail.Decoded.Read, detail.Verification); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
