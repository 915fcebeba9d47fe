// Command seqverify checks sequencing reads against a designed construct.
//
// Usage:
//
//	seqverify [command] [options]
//
// Commands:
//
//	inspect     Decode a read file and report its statistics
//	verify      Align a read against construct parts
//	version     Show version information
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/robertftenbosch/tenbio/internal/config"
	"github.com/robertftenbosch/tenbio/internal/verify"
	"github.com/robertftenbosch/tenbio/pkg/seqverify"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// options shared by every subcommand
type rootOptions struct {
	configFile string
	verbose    bool
	v          *viper.Viper
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "seqverify",
		Short: "seqverify - Sequencing read verification",
		Long: `seqverify decodes Sanger traces (.ab1) and FASTQ reads and checks them
against the parts of a designed construct.

Reads may be gzip or zstd compressed. Parts are read from a JSON array of
{name, type, sequence} objects or from FASTA with ">name type" headers.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v, err := config.New(opts.configFile)
			if err != nil {
				return err
			}
			opts.v = v
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "settings file (YAML or JSON)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log progress to stderr")

	cmd.AddCommand(newInspectCmd(opts))
	cmd.AddCommand(newVerifyCmd(opts))
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), seqverify.Info())
		},
	})

	return cmd
}

// logger returns a logger for progress messages, discarding them unless
// --verbose is set.
func (o *rootOptions) logger(cmd *cobra.Command) *log.Logger {
	if !o.verbose {
		return log.New(io.Discard, "", 0)
	}
	return log.New(cmd.ErrOrStderr(), cmd.Name()+": ", log.Ltime)
}

// importer builds the Importer from settings.
func (o *rootOptions) importer() (*verify.Importer, error) {
	c, err := config.Load(o.v)
	if err != nil {
		return nil, err
	}
	return c.Importer(), nil
}
