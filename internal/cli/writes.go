package cli

import (
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"busdecode/internal/bus"
	"busdecode/internal/common"
	"busdecode/internal/writelog"
)

func newWritesCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "writes write_log",
		Short: "Print the bytes recorded in a bus write log.",
		Long: `Print the bytes recorded in a text bus write log. Bytes are
	un-inverted and shown as hex, with the character when printable; idle
	(FF) writes are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := openInput(cmd, args[0])
			if err != nil {
				return common.WrapError(bus.ErrFileError, err, "opening write log")
			}
			defer in.Close()

			st, err := writelog.Dump(in, stdout)
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout)
			log.Debugf("%d lines, %d bytes, %d skipped", st.Lines, st.Bytes, st.Skipped)
			return nil
		},
	}
}
