// ABOUTME: Entry point for earwax-probe
// ABOUTME: Prints stream info, walks decoded chunks and exports audio files to WAV
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sendspin/earwax-go/internal/version"
	"github.com/Sendspin/earwax-go/pkg/audio"
	"github.com/Sendspin/earwax-go/pkg/audio/encode"
	"github.com/Sendspin/earwax-go/pkg/audio/resample"
	"github.com/Sendspin/earwax-go/pkg/earwax"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:     "earwax-probe",
		Short:   "Inspect audio files with the earwax decoder",
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, ok := earwax.ParseLogLevel(logLevel)
			if !ok {
				return fmt.Errorf("unknown log level %q", logLevel)
			}
			earwax.SetLogLevel(level)
			return nil
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&logLevel, "loglevel", "error", "Decoder verbosity: quiet, error, info, debug")

	root.AddCommand(newInfoCmd(), newWalkCmd(), newExportCmd())
	return root
}

// infoCmd prints the stream parameters of each file
func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info file-or-url...",
		Short: "Print stream information",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var failed int
			for _, path := range args {
				if err := printInfo(cmd.OutOrStdout(), path); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%v\n", err)
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(args))
			}
			return nil
		},
	}
}

func printInfo(w io.Writer, path string) error {
	s, err := earwax.Open(path)
	if err != nil {
		return err
	}
	defer s.Close()

	info := s.Info()
	fmt.Fprintf(w, "%s\n", path)
	fmt.Fprintf(w, "  codec:       %s\n", info.Codec)
	fmt.Fprintf(w, "  sample rate: %d Hz\n", info.SampleRate)
	fmt.Fprintf(w, "  channels:    %d\n", info.Channels)
	fmt.Fprintf(w, "  bit rate:    %d bps\n", info.BitRate)
	fmt.Fprintf(w, "  time base:   %s\n", info.TimeBase)
	fmt.Fprintf(w, "  start:       %s\n", info.StartTime)
	fmt.Fprintf(w, "  duration:    %s (%v)\n", info.Duration, info.Duration.Duration())
	return nil
}

// walkStats summarises one pass over a stream
type walkStats struct {
	chunks    int
	bytes     int
	first     earwax.Timestamp
	last      earwax.Timestamp
	monotonic bool
}

func newWalkCmd() *cobra.Command {
	var seek int64

	cmd := &cobra.Command{
		Use:   "walk file-or-url",
		Short: "Decode every chunk and report timestamps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := walk(args[0], seek)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "chunks:    %d\n", stats.chunks)
			fmt.Fprintf(w, "bytes:     %d\n", stats.bytes)
			if stats.chunks > 0 {
				fmt.Fprintf(w, "first pts: %d\n", stats.first.PTS())
				fmt.Fprintf(w, "last pts:  %d\n", stats.last.PTS())
			}
			fmt.Fprintf(w, "monotonic: %t\n", stats.monotonic)
			return nil
		},
	}
	cmd.Flags().Int64Var(&seek, "seek", 0, "Seek to this many seconds before walking")
	return cmd
}

func walk(path string, seek int64) (walkStats, error) {
	stats := walkStats{monotonic: true}

	s, err := earwax.Open(path)
	if err != nil {
		return stats, err
	}
	defer s.Close()

	if seek > 0 {
		if err := s.Seek(seek); err != nil {
			return stats, err
		}
	}

	for {
		chunk, err := s.Next()
		if errors.Is(err, io.EOF) {
			return stats, nil
		}
		if err != nil {
			return stats, err
		}

		if stats.chunks == 0 {
			stats.first = chunk.Time
		} else if chunk.Time.Compare(stats.last) <= 0 {
			stats.monotonic = false
		}
		stats.last = chunk.Time
		stats.chunks++
		stats.bytes += len(chunk.Data)
	}
}

// exportOptions control the file written by export
type exportOptions struct {
	format   string
	rate     int
	bitDepth int
	seek     int64
}

func newExportCmd() *cobra.Command {
	var opts exportOptions

	cmd := &cobra.Command{
		Use:   "export file-or-url out",
		Short: "Decode a file to a stereo WAV or raw PCM file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			written, err := export(args[0], args[1], opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d bytes to %s\n", written, args[1])
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.format, "format", "wav", "Output format: wav or raw")
	cmd.Flags().IntVar(&opts.rate, "rate", 0, "Output sample rate (default: source rate)")
	cmd.Flags().IntVar(&opts.bitDepth, "bit-depth", 16, "Output bit depth: 16 or 24 (32 for wav)")
	cmd.Flags().Int64Var(&opts.seek, "seek", 0, "Start this many seconds into the source")
	return cmd
}

func export(path, outPath string, opts exportOptions) (int64, error) {
	s, err := earwax.Open(path)
	if err != nil {
		return 0, err
	}
	defer s.Close()

	if opts.seek > 0 {
		if err := s.Seek(opts.seek); err != nil {
			return 0, err
		}
	}

	info := s.Info()
	rate := opts.rate
	if rate == 0 {
		rate = info.SampleRate
	}

	f, err := os.Create(outPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create output: %w", err)
	}
	defer f.Close()

	format := audio.Format{Codec: "pcm", SampleRate: rate, Channels: 2, BitDepth: opts.bitDepth}
	var w encode.SampleWriter
	switch opts.format {
	case "", "wav":
		w, err = encode.NewWAV(f, format)
	case "raw":
		w, err = encode.NewPCMWriter(f, format)
	default:
		err = fmt.Errorf("unknown export format %q", opts.format)
	}
	if err != nil {
		return 0, err
	}

	var rs *resample.Resampler
	if rate != info.SampleRate {
		rs = resample.New(info.SampleRate, rate, 2)
	}

	var samples, resampled []int32
	for {
		chunk, err := s.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return w.Written(), err
		}

		samples = audio.SamplesFromS16LE(samples, chunk.Data)
		out := samples
		if rs != nil {
			need := rs.OutputSamplesNeeded(len(samples))
			if cap(resampled) < need {
				resampled = make([]int32, need)
			}
			out = resampled[:rs.Resample(samples, resampled[:need])]
		}
		if err := w.Write(out); err != nil {
			return w.Written(), err
		}
	}

	if err := w.Close(); err != nil {
		return w.Written(), err
	}
	return w.Written(), f.Close()
}
