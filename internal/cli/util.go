package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"busdecode/internal/bus"
	"busdecode/internal/common"
)

// Get an expected flag, or panic if an error arises.
func getFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		panic(fmt.Sprintf("flag %s: %v", flag, err))
	}
	return r
}

func getUint64(cmd *cobra.Command, flag string) uint64 {
	r, err := cmd.Flags().GetUint64(flag)
	if err != nil {
		panic(fmt.Sprintf("flag %s: %v", flag, err))
	}
	return r
}

func getInt(cmd *cobra.Command, flag string) int {
	r, err := cmd.Flags().GetInt(flag)
	if err != nil {
		panic(fmt.Sprintf("flag %s: %v", flag, err))
	}
	return r
}

func getString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		panic(fmt.Sprintf("flag %s: %v", flag, err))
	}
	return r
}

// openInput opens a named file, with "-" meaning the command's standard
// input. Closing standard input is a no-op.
func openInput(cmd *cobra.Command, name string) (io.ReadCloser, error) {
	if name == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	return os.Open(name)
}

// closeOutput closes a file that was written, reporting a failed close as a
// file error.
func closeOutput(c io.Closer, name string) error {
	if err := c.Close(); err != nil {
		return common.WrapError(bus.ErrFileError, err, "closing %s", name)
	}
	return nil
}
