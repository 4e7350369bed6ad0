// SPDX-License-Identifier: EPL-2.0

package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/ik5/intake"
	"github.com/ik5/intake/pipeline"
	"github.com/ik5/intake/report"
	"github.com/ik5/intake/usage"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func (c *CLI) newAnalyzeCommand() *cobra.Command {
	var (
		outDir   string
		jsonPath string
		noUsage  bool
	)

	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Fill the interview form from a recording",
		Long: `Analyse an interview recording and write the filled form as a Markdown
report named BNI訪談記錄_<applicant>_<date>.md.

Recordings over 5 MiB are compressed to 16 kHz mono MP3 first; if that
fails the original is sent. Payloads over 20 MiB are refused. The API key
is read from GEMINI_API_KEY, which may also be set in a .env file.

Examples:
  intake analyze interview.mp3
  intake analyze --out ./reports --json result.json interview.wav`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAnalyze(cmd, args[0], outDir, jsonPath, noUsage)
		},
	}

	cmd.Flags().StringVar(&outDir, "out", ".", "Directory for the report")
	cmd.Flags().StringVar(&jsonPath, "json", "", "Also write the raw analysis as JSON to this path")
	cmd.Flags().BoolVar(&noUsage, "no-usage", false, "Do not record token usage")

	return cmd
}

func (c *CLI) runAnalyze(cmd *cobra.Command, path, outDir, jsonPath string, noUsage bool) error {
	file, err := intake.LoadFile(c.fs, path)
	if err != nil {
		return err
	}

	o := intake.New(pipeline.New(c.logger), c.NewRemote(c.cfg, c.logger), nil, c.logger)
	o.Now = c.now
	if !noUsage {
		store, err := c.openUsage()
		if err != nil {
			c.logger.Warn().Err(err).Msg("usage will not be recorded")
		} else {
			defer store.Close()
			o.Usage = store
		}
	}

	progress := cmd.ErrOrStderr()
	o.OnProgress = func(p intake.Progress) { fmt.Fprintln(progress, p.Message) }

	out, err := o.Process(cmd.Context(), file)
	if err != nil {
		return err
	}
	res := out.Analysis
	c.logger.Debug().Interface("compression", o.Policy.Stats.Snapshot()).Msg("policy stats")

	if err := c.fs.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", outDir, err)
	}
	dest := filepath.Join(outDir, report.FileName(res.Form.ApplicantName, c.now()))
	doc := report.Document{Form: res.Form, Summary: res.Summary, Transcript: res.Transcript}
	if err := afero.WriteFile(c.fs, dest, report.Render(doc), 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	if jsonPath != "" {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding analysis: %w", err)
		}
		if err := afero.WriteFile(c.fs, jsonPath, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", jsonPath, err)
		}
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Report: %s\n", dest)
	fmt.Fprintf(w, "Questions answered: %d/%d\n", res.Form.Answered(), len(res.Form.Answers()))
	fmt.Fprintf(w, "Tokens: %s in, %s out, cost %s (US$%.4f)\n",
		usage.FormatTokens(int64(out.Usage.InputTokens)),
		usage.FormatTokens(int64(out.Usage.OutputTokens)),
		usage.FormatCost(out.Usage.CostNTD),
		out.Usage.CostUSD)
	return nil
}
