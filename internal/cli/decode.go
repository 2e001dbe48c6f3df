package cli

import (
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"busdecode/internal/bus"
	"busdecode/internal/common"
	"busdecode/internal/config"
	"busdecode/internal/decoder"
	"busdecode/internal/lister"
	"busdecode/internal/source"
)

func newDecodeCmd(stdout io.Writer) *cobra.Command {
	decodeCmd := &cobra.Command{
		Use:   "decode [flags] capture_file",
		Short: "Decode the bus events in a capture.",
		Long: `Decode reset, clock edge and address events from a capture.
	The capture is a raw stream of 16-bit little-endian samples with no
	header; "-" reads it from standard input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := decodeConfig(cmd)
			if err != nil {
				return err
			}
			f, err := openInput(cmd, args[0])
			if err != nil {
				return common.WrapError(bus.ErrFileError, err, "opening capture")
			}
			defer f.Close()

			verbose, quiet := getFlag(cmd, "verbose"), getFlag(cmd, "quiet")
			errLevel := bus.ErrSevWarn
			switch {
			case verbose:
				errLevel = bus.ErrSevInfo
			case quiet:
				errLevel = bus.ErrSevError
			}

			log.Debugf("decoding %s", args[0])
			stats, err := lister.Run(cmd.Context(), lister.Config{
				Input:         f,
				Decoder:       *cfg,
				Format:        getString(cmd, "format"),
				ChunkSize:     getInt(cmd, "chunk"),
				PrintStats:    getFlag(cmd, "stats"),
				Quiet:         quiet,
				EchoEvents:    verbose,
				ErrorLogLevel: errLevel,
				OutputWriter:  stdout,
				Logger:        common.NewLogrusLogger(log.StandardLogger(), "decode"),
			})
			if stats.LimitReached {
				log.Infof("stopped at sample limit %s", cfg.LimitString())
			}
			return err
		},
	}

	decodeCmd.Flags().Bool("edges", false, "report every rising clock edge")
	decodeCmd.Flags().Uint64("limit", 0, "stop after this many samples")
	decodeCmd.Flags().Bool("bounded", false, fmt.Sprintf("stop after %d samples", decoder.DefaultSampleLimit))
	decodeCmd.Flags().String("channels", "", "ini file overriding the channel bit assignment")
	decodeCmd.Flags().String("format", lister.FormatText, "output format (text or json)")
	decodeCmd.Flags().Int("chunk", source.DefaultChunkSize, "capture read size in bytes")
	decodeCmd.Flags().Bool("stats", false, "print event counts after the log")
	decodeCmd.Flags().BoolP("quiet", "q", false, "print no events and log errors only (use with --stats for counts)")
	decodeCmd.MarkFlagsMutuallyExclusive("limit", "bounded")
	return decodeCmd
}

// decodeConfig builds the decoder configuration from the command flags.
func decodeConfig(cmd *cobra.Command) (*decoder.Config, error) {
	cfg := decoder.NewConfig()
	switch {
	case getFlag(cmd, "bounded"):
		cfg = decoder.NewBoundedConfig()
	case cmd.Flags().Changed("limit"):
		cfg.SetSampleLimit(getUint64(cmd, "limit"))
	}
	cfg.EmitClockEdges = getFlag(cmd, "edges")

	if path := getString(cmd, "channels"); path != "" {
		m, err := config.LoadChannelMap(path)
		if err != nil {
			return nil, err
		}
		cfg.Channels = m
		log.Debugf("channel map %s: %s", path, m)
	}
	return cfg, nil
}
