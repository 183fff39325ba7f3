// =============================================================================
// TCG Order Processor - URLs Command
// =============================================================================
//
// This file defines the 'urls' command, which expands pasted order numbers
// into order-page URLs.
//
// COMMAND USAGE:
//   tcgorders urls [file] [flags]
//
//   One identifier per line. Existing https:// links are kept, Manapool
//   UUIDs and TCGplayer order numbers are expanded with their marketplace's
//   URL template, and blank lines are dropped. With no file, stdin is read.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/ginjaninja78/tcg-order-processor/internal/classifier"
	"github.com/ginjaninja78/tcg-order-processor/internal/metrics"
	"github.com/ginjaninja78/tcg-order-processor/internal/sheetwriter"
	"github.com/ginjaninja78/tcg-order-processor/pkg/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// modeURLs is the metrics mode label for URL batches.
const modeURLs = "urls"

var urlsOutput string

var urlsCmd = &cobra.Command{
	Use:   "urls [file]",
	Short: "Generate order URLs from order numbers",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup()
		if err != nil {
			return err
		}
		defer env.close()

		input := utils.StdinArg
		if len(args) == 1 {
			input = args[0]
		}
		return runURLs(env, input, urlsOutput, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.AddCommand(urlsCmd)

	urlsCmd.Flags().StringVarP(&urlsOutput, "output", "o", utils.StdinArg,
		`Output path, or "-" for stdout`)
}

// runURLs reads identifiers from input and writes one URL per line.
func runURLs(env *environment, input, output string, stdin io.Reader, stdout, stderr io.Writer) error {
	fm := utils.NewFileManager(env.config.OutputDir)
	fm.Stdin = stdin

	raw, err := fm.ReadInput(input)
	if err != nil {
		return err
	}

	links, err := classifier.Generate(raw)
	if err != nil {
		env.metrics.BatchesTotal.WithLabelValues(modeURLs, metrics.StatusEmpty).Inc()
		return err
	}

	urls := make([]string, len(links))
	for i, link := range links {
		urls[i] = link.URL
		env.metrics.URLsGeneratedTotal.WithLabelValues(string(link.Kind)).Inc()
		if link.Kind == classifier.KindUnrecognized {
			env.logger.Debug("Unrecognized order number, using the TCGplayer template",
				zap.String("input", link.Input),
			)
		}
	}
	env.metrics.BatchesTotal.WithLabelValues(modeURLs, metrics.StatusSuccess).Inc()

	if output == utils.StdinArg {
		if err := sheetwriter.WriteURLs(stdout, urls); err != nil {
			return err
		}
		fmt.Fprintln(stdout)
	} else {
		file, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		if err := sheetwriter.WriteURLs(file, urls); err != nil {
			file.Close()
			return fmt.Errorf("failed to write %s: %w", output, err)
		}
		if err := file.Close(); err != nil {
			return err
		}
	}

	env.logger.Info("Generated order URLs", zap.Int("urls", len(urls)), zap.String("output", output))
	fmt.Fprintf(stderr, "Generated %d URL(s)\n", len(urls))
	return nil
}
