// Package classify implements the command that turns inventory spreadsheets
// into the settlement result workbook.
package classify

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Kris2339/MEO-PayDay/cmd/common"
	"github.com/Kris2339/MEO-PayDay/cmd/root"
	"github.com/Kris2339/MEO-PayDay/internal/container"
	"github.com/Kris2339/MEO-PayDay/internal/logging"
	"github.com/Kris2339/MEO-PayDay/internal/parsererror"
	"github.com/Kris2339/MEO-PayDay/internal/report"
	"github.com/Kris2339/MEO-PayDay/internal/spreadsheet"

	"github.com/spf13/cobra"
)

// Options holds the classify flags.
type Options struct {
	Output string
	Format string
	Sheet  string
	Report string
}

var opts Options

// Cmd represents the classify command
var Cmd = &cobra.Command{
	Use:   "classify [files or directories...]",
	Short: "Classify outbound and inbound spreadsheets into settlement categories",
	Long: `Classify outbound (출고) and inbound (입고) inventory spreadsheets.

Every argument is an .xlsx or .xls file, or a directory whose spreadsheets are all
processed. Rows of accepted transaction types are labeled with a proposed category
and written to one result file, outbound rows first. Files that are not outbound or
inbound exports are skipped and listed in the report.

Example:
  meo-settle classify 출고.xlsx 입고.xls -o 최종분류결과.xlsx
  meo-settle classify uploads/ --format csv -o result.csv --report json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(cmd.Context(), root.GetContainer(), opts, args, cmd.OutOrStdout())
	},
}

func init() {
	Cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output file (default from config: 최종분류결과.xlsx)")
	Cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: xlsx or csv (default: from the output extension)")
	Cmd.Flags().StringVar(&opts.Sheet, "sheet", "", "Result worksheet name (default from config: 최종분류)")
	Cmd.Flags().StringVarP(&opts.Report, "report", "r", "", "Summary format printed after the run: text, json or yaml")
}

// Run classifies the given paths and writes the result file.
func Run(ctx context.Context, c *container.Container, o Options, args []string, out io.Writer) error {
	if c == nil {
		return fmt.Errorf("application is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	log := c.GetLogger()
	cfg := c.GetConfig()
	o = withDefaults(o, cfg.Output.File, cfg.Output.Format, cfg.Output.Sheet, cfg.Report.Format)

	format, err := common.ResolveOutputFormat(o.Format, o.Output)
	if err != nil {
		return err
	}

	manager := c.GetMarketManager()
	if err := manager.Load(ctx); err != nil {
		var perr *parsererror.PersistenceError
		if !errors.As(err, &perr) {
			return err
		}
		// A session keeps working with whatever list it already has.
		log.WithError(err).Warn("Failed to load market product list")
	}

	inputs, readErrs := common.CollectInputs(args, log)
	res, err := c.GetProcessor().Process(ctx, inputs, manager.Products())
	if err != nil && !errors.Is(err, parsererror.ErrNoValidRows) {
		return errors.Join(append([]error{err}, readErrs...)...)
	}
	res.FileErrors = append(readErrs, res.FileErrors...)

	rendered, rerr := c.GetReportGenerator().GenerateReport(&report.RunReport{
		RunID:      res.RunID,
		Files:      res.Files + len(readErrs),
		Summary:    res.Summary(),
		FileErrors: res.ErrorMessages(),
	}, o.Report)
	if rerr != nil {
		return rerr
	}
	if _, werr := out.Write(rendered); werr != nil {
		return werr
	}
	if err != nil {
		return err
	}

	if err := common.WriteOutput(o.Output, format, o.Sheet, res.Records(), c.GetCSVDelimiter(), log); err != nil {
		return fmt.Errorf("failed to write %s: %w", o.Output, err)
	}
	res.Summary().LogSummary(log.WithField(logging.FieldRunID, res.RunID))
	fmt.Fprintf(out, "Wrote %d rows to %s\n", len(res.Records()), o.Output)
	return nil
}

func withDefaults(o Options, file, format, sheet, reportFormat string) Options {
	if o.Output == "" {
		o.Output = file
	}
	if o.Output == "" {
		o.Output = spreadsheet.DefaultResultFile
	}
	if o.Format == "" {
		o.Format = format
	}
	if o.Sheet == "" {
		o.Sheet = sheet
	}
	if o.Report == "" {
		o.Report = reportFormat
	}
	return o
}
