package cli

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"busdecode/internal/bus"
	"busdecode/internal/capture"
	"busdecode/internal/common"
	"busdecode/internal/config"
	"busdecode/internal/source"
)

func newWavCmd() *cobra.Command {
	wavCmd := &cobra.Command{
		Use:   "wav [flags] capture_file wav_file",
		Short: "Convert a capture to a multi-track WAV file.",
		Long: `Convert a capture to a 16-bit PCM WAV file with one track per
	control line (reset, clock, cs1, cs2) and one for the address bus, for
	viewing in a waveform editor.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			exp := capture.NewWAVExporter()
			exp.LoggerAttachPt().Attach(common.NewLogrusLogger(log.StandardLogger(), "wav"))
			exp.SampleRate = getInt(cmd, "rate")
			if cmd.Flags().Changed("limit") {
				exp.SetLimit(getUint64(cmd, "limit"))
			}
			if path := getString(cmd, "channels"); path != "" {
				m, err := config.LoadChannelMap(path)
				if err != nil {
					return err
				}
				exp.Channels = m
			}

			in, err := openInput(cmd, args[0])
			if err != nil {
				return common.WrapError(bus.ErrFileError, err, "opening capture")
			}
			defer in.Close()

			out, err := os.Create(args[1])
			if err != nil {
				return common.WrapError(bus.ErrFileError, err, "creating wav file")
			}

			frames, err := exp.Export(source.New(in), out)
			if cerr := closeOutput(out, args[1]); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}
			log.Infof("wrote %d frames to %s", frames, args[1])
			return nil
		},
	}

	wavCmd.Flags().Int("rate", capture.DefaultSampleRate, "sample rate written to the wav header")
	wavCmd.Flags().Uint64("limit", 0, "stop after this many samples")
	wavCmd.Flags().String("channels", "", "ini file overriding the channel bit assignment")
	return wavCmd
}
