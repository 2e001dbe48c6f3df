// Package cli holds the busdecode command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Version is filled when building with make, but *not* when installing via "go
// install".
var Version string

// NewRootCmd builds the command tree. Output goes to stdout, logging to
// stderr.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "busdecode",
		Short:         "Decode logic analyzer captures of a microprocessor bus.",
		Long:          "Decode reset, clock and address activity from 16-bit logic analyzer captures.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging(stderr, getFlag(cmd, "verbose"))
		},
		Run: func(cmd *cobra.Command, args []string) {
			if getFlag(cmd, "version") {
				fmt.Fprintf(stdout, "busdecode %s\n", version())
				return
			}
			_ = cmd.Help()
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.Flags().Bool("version", false, "Report version of this executable")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")

	rootCmd.AddCommand(newDecodeCmd(stdout))
	rootCmd.AddCommand(newWavCmd())
	rootCmd.AddCommand(newWritesCmd(stdout))
	return rootCmd
}

// Execute runs the command line. This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := NewRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		log.Error(err)
		stop()
		os.Exit(1)
	}
}

func version() string {
	if Version != "" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.Main.Version
	}
	return "(unknown version)"
}

// configureLogging points the standard logrus logger at w, colouring output
// only when w is a terminal.
func configureLogging(w io.Writer, verbose bool) {
	log.SetOutput(w)

	tty := false
	if f, ok := w.(*os.File); ok {
		tty = term.IsTerminal(int(f.Fd()))
	}
	log.SetFormatter(&log.TextFormatter{
		ForceColors:      tty,
		DisableColors:    !tty,
		FullTimestamp:    tty,
		DisableTimestamp: !tty,
	})

	if verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}
