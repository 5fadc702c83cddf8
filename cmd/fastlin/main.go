package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"fastlin/internal/engine"
	"fastlin/internal/historyfile"
	"fastlin/internal/model"
	"fastlin/internal/report"
)

var (
	printTime    bool
	excludePeeks bool
	verbose      bool
	printHeader  bool
)

// usageText reproduces print_usage()'s literal text from the original
// fastlin.cpp driver, with the binary name cobra already knows about
// (Use: "fastlin ...") substituted for the original's "./fastlin".
const usageText = `Usage: fastlin [-txvh] <history_file>
Options:
  -t	report time taken in seconds
  -x	exclude peek operations (chooses faster algo if possible)
  -v	print verbose information
  -h	include headers
`

func main() {
	log.SetOutput(os.Stderr)
	log.SetFlags(0)

	if err := newRootCmd().Execute(); err != nil {
		log.Fatalf("fastlin: %v", err)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "fastlin <history_file>",
		Short:         "Check a concurrent history for linearizability under the distinct-value restriction",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], cmd.OutOrStdout())
		},
	}
	// fastlin's own -h means "print headers", not "show help"; register the
	// help flag without cobra's default -h shorthand so -h stays free below.
	cmd.Flags().Bool("help", false, "help for fastlin")

	cmd.Flags().BoolVarP(&printTime, "time", "t", false, "report time taken in seconds")
	cmd.Flags().BoolVarP(&excludePeeks, "exclude-peeks", "x", false, "exclude peek operations (chooses faster algo if possible)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print verbose information")
	cmd.Flags().BoolVarP(&printHeader, "header", "h", false, "include headers")

	// Replace cobra's auto-generated help text with print_usage()'s literal
	// text, printed to stdout on --help, matching the original's
	// EXIT_SUCCESS path. Other input errors (unknown flag, missing path)
	// are left to SilenceUsage/SilenceErrors and main's log.Fatalf, as the
	// original prints only a one-line diagnostic for those, not the full
	// usage block.
	cmd.SetHelpFunc(func(c *cobra.Command, args []string) {
		fmt.Fprint(c.OutOrStdout(), usageText)
	})
	return cmd
}

func run(path string, out io.Writer) error {
	histType, err := historyfile.ReadType(path)
	if err != nil {
		return err
	}
	dataType, err := model.ParseDataType(histType)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	hist, err := historyfile.ReadHistory(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	monitor, err := engine.Monitor(dataType, excludePeeks)
	if err != nil {
		return err
	}

	start := time.Now()
	linearizable, err := monitor(hist)
	elapsed := time.Since(start)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	result := report.Result{
		Linearizable:      linearizable,
		Operations:        len(hist),
		PrintTime:         printTime || verbose,
		TimeTakenSecs:     elapsed.Seconds(),
		PrintOperations:   verbose,
		PrintExcludePeeks: verbose,
		ExcludePeeks:      excludePeeks,
	}

	if printHeader {
		if err := report.WriteHeader(out, result); err != nil {
			return err
		}
	}
	return report.Write(out, result)
}
