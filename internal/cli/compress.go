// SPDX-License-Identifier: EPL-2.0

package cli

import (
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/ik5/intake"
	"github.com/ik5/intake/analysis"
	"github.com/ik5/intake/internal/config"
	"github.com/ik5/intake/pipeline"
	"github.com/ik5/intake/usage"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func (c *CLI) newCompressCommand() *cobra.Command {
	var (
		rate   int
		outDir string
		verify bool
	)

	cmd := &cobra.Command{
		Use:   "compress <file>",
		Short: "Convert a recording to mono MP3",
		Long: `Convert a recording to mono 16-bit MP3 at 16 or 24 kHz.

The output is named after the rate, e.g. interview_16kHz.mp3, and written
next to the input unless --out is given. Unlike analyze, a recording that
cannot be decoded is reported as an error.

Examples:
  intake compress interview.wav
  intake compress --rate 24000 --out ./mp3 interview.flac
  intake compress --verify interview.wav   # transcribe the result`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCompress(cmd, args[0], rate, outDir, verify)
		},
	}

	cmd.Flags().IntVar(&rate, "rate", 0, "Target sample rate, 16000 or 24000 (default from config)")
	cmd.Flags().StringVar(&outDir, "out", "", "Output directory (default: next to the input)")
	cmd.Flags().BoolVar(&verify, "verify", false, "Transcribe the compressed audio to check it is intelligible")

	return cmd
}

func (c *CLI) runCompress(cmd *cobra.Command, path string, rate int, outDir string, verify bool) error {
	if rate == 0 {
		rate = c.cfg.TargetRate
	}
	if rate != 16000 && rate != 24000 {
		return fmt.Errorf("%w, got %d", config.ErrInvalidRate, rate)
	}

	file, err := intake.LoadFile(c.fs, path)
	if err != nil {
		return err
	}

	out, err := intake.Compress(cmd.Context(), pipeline.New(c.logger), file, rate, c.logger)
	if err != nil {
		return fmt.Errorf("compressing %s: %w", file.Name, err)
	}

	if outDir == "" {
		outDir = filepath.Dir(path)
	}
	if err := c.fs.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", outDir, err)
	}
	dest := filepath.Join(outDir, out.File.Name)
	if err := afero.WriteFile(c.fs, dest, out.File.Data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", dest, err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s: %s → %s (%.1f%% smaller, %.1fs at %d Hz)\n",
		dest,
		humanize.IBytes(uint64(out.OriginalSize)),
		humanize.IBytes(uint64(out.File.Size())),
		(1-out.Ratio())*100,
		out.Duration,
		rate)

	if !verify {
		return nil
	}

	remote := c.NewRemote(c.cfg, c.logger)
	text, u, err := remote.Transcribe(cmd.Context(), analysis.Payload{
		Name: out.File.Name,
		MIME: out.File.MIME,
		Data: out.File.Data,
	})
	if err != nil {
		return fmt.Errorf("verifying %s: %w", out.File.Name, err)
	}

	c.recordUsage(cmd, out.File.Name, u)

	cost := usage.CalculateCost(u.InputTokens, u.OutputTokens)
	fmt.Fprintf(w, "\nTranscript:\n%s\n\n", text)
	fmt.Fprintf(w, "Tokens: %s (estimated for audio: %s), cost %s\n",
		usage.FormatTokens(int64(u.TotalTokens)),
		usage.FormatTokens(int64(usage.EstimateAudioTokens(out.Duration))),
		usage.FormatCost(cost.NTD))
	return nil
}

// recordUsage stores a verification call; failures are only logged.
func (c *CLI) recordUsage(cmd *cobra.Command, name string, u analysis.Usage) {
	store, err := c.openUsage()
	if err != nil {
		c.logger.Warn().Err(err).Msg("usage not recorded")
		return
	}
	defer store.Close()

	rec := usage.NewRecord(name, u.InputTokens, u.OutputTokens, u.TotalTokens, c.now())
	if err := store.Add(cmd.Context(), rec); err != nil {
		c.logger.Warn().Err(err).Msg("usage not recorded")
	}
}
