// SPDX-License-Identifier: EPL-2.0

package cli

import (
	"bytes"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ik5/intake"
	"github.com/ik5/intake/formats/wav"
	"github.com/ik5/intake/pipeline"
	"github.com/spf13/cobra"
)

// sniffLen is how much of a file the decoder registry looks at.
const sniffLen = 512

func (c *CLI) newRenderCommand() *cobra.Command {
	var (
		rate    int
		out     string
		bufSize int
	)

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Preview the mono downmix as a WAV file",
		Long: `Decode a recording and stream it through the cubic resampler and the
mono mixer into a 16-bit WAV file. Useful to hear what the model will be
sent without going through the MP3 encoder.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], rate, out, bufSize)
		},
	}

	cmd.Flags().IntVar(&rate, "rate", 0, "Target sample rate (default from config)")
	cmd.Flags().StringVar(&out, "out", "", "Output file (default: <input>_preview.wav)")
	cmd.Flags().IntVar(&bufSize, "buffer", 4096, "Samples per read")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, path string, rate int, out string, bufSize int) error {
	if rate == 0 {
		rate = c.cfg.TargetRate
	}

	file, err := intake.LoadFile(c.fs, path)
	if err != nil {
		return err
	}

	format, dec, err := pipeline.DefaultRegistry().Resolve(file.Name, file.MIME, file.Data[:min(len(file.Data), sniffLen)])
	if err != nil {
		return fmt.Errorf("%s: %w", file.Name, err)
	}
	src, err := dec.Decode(bytes.NewReader(file.Data))
	if err != nil {
		return &pipeline.DecodeError{Format: format, Err: err}
	}
	channels, srcRate := src.Channels(), src.SampleRate()

	samples, err := pipeline.StreamMono16(src, rate, bufSize)
	if err != nil {
		return err
	}

	if out == "" {
		out = strings.TrimSuffix(path, filepath.Ext(path)) + "_preview.wav"
	}
	f, err := c.fs.Create(out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", out, err)
	}
	if err := wav.WriteWAV16(f, rate, samples); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	c.logger.Debug().
		Str("format", format).
		Int("channels", channels).
		Int("source_rate", srcRate).
		Int("samples", len(samples)).
		Msg("rendered preview")
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s %d Hz × %d → mono %d Hz, %.2fs\n",
		out, format, srcRate, channels, rate, float64(len(samples))/float64(rate))
	return nil
}

func newFormatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the audio formats that can be decoded",
		Args:  cobra.NoArgs,
		// no configuration needed
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			names := pipeline.DefaultRegistry().Formats()
			slices.Sort(names)
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
}
