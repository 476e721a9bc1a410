package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/javajack/xlhelper"
	"github.com/javajack/xlhelper/tealeg"
)

// cli holds the global flags and the facade opened for the current command.
type cli struct {
	file      string
	sheet     string
	engine    string
	logLevel  string
	prettyLog bool

	facade *xlhelper.Facade
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "xlhelper",
		Short: "Read, write and add formulas to spreadsheet files",
		Long: `xlhelper edits one workbook per invocation. Cells use A1 notation,
ranges A1:C5. A sheet prefix such as Data!A1 selects that sheet.
Commands that change the workbook save it in place.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setupLogging,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&c.file, "file", "f", "", "workbook path (.xlsx, .xlsm, or .xls for reading)")
	flags.StringVarP(&c.sheet, "sheet", "s", "", "sheet to act on (default: the workbook's active sheet)")
	flags.StringVar(&c.engine, "engine", "excelize", "spreadsheet engine: excelize or tealeg")
	flags.StringVar(&c.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	flags.BoolVar(&c.prettyLog, "pretty-log", false, "human-readable log output")
	root.MarkPersistentFlagRequired("file")

	root.AddCommand(
		c.newCmd(),
		c.sheetsCmd(),
		c.getCmd(),
		c.setCmd(),
		c.rowCmd(),
		c.columnCmd(),
		c.rangeCmd(),
		c.formulaCmd(),
		c.copyFormulaCmd(),
		c.aggregateCmd("sum", "SUM", (*xlhelper.Facade).SumRange),
		c.aggregateCmd("average", "AVERAGE", (*xlhelper.Facade).AverageRange),
		c.aggregateCmd("count", "COUNT", (*xlhelper.Facade).CountRange),
		c.ifCmd(),
		c.vlookupCmd(),
		c.styleCmd(),
		c.autofitCmd(),
		c.describeCmd(),
	)
	return root
}

func (c *cli) setupLogging(cmd *cobra.Command, _ []string) error {
	level, err := zerolog.ParseLevel(strings.ToLower(c.logLevel))
	if err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", c.logLevel, err)
	}
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	if c.prettyLog {
		logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	log.Logger = logger.Level(level)
	return nil
}

func (c *cli) options() ([]xlhelper.Option, error) {
	opts := []xlhelper.Option{xlhelper.WithLogger(log.Logger)}
	switch c.engine {
	case "excelize":
	case "tealeg":
		opts = append(opts, xlhelper.WithEngine(tealeg.Engine{}))
	default:
		return nil, fmt.Errorf("unknown engine %q (must be excelize or tealeg)", c.engine)
	}
	return opts, nil
}

// useSheet points the command at the sheet its cell arguments name, so
// "Data!A1" acts on Data. Arguments naming different sheets, or a sheet
// other than --sheet, are rejected.
func (c *cli) useSheet(refs ...xlhelper.CellRef) error {
	for _, ref := range refs {
		if ref.Sheet == "" {
			continue
		}
		if c.sheet != "" && c.sheet != ref.Sheet {
			return fmt.Errorf("%s is on sheet %q but the command acts on %q", ref, ref.Sheet, c.sheet)
		}
		c.sheet = ref.Sheet
	}
	return nil
}

// open loads --file and selects --sheet.
func (c *cli) open(extra ...xlhelper.Option) error {
	opts, err := c.options()
	if err != nil {
		return err
	}
	c.facade = xlhelper.New(c.file, append(opts, extra...)...)
	if err := c.facade.Open(""); err != nil {
		return err
	}
	if c.sheet != "" {
		if err := c.facade.SelectSheet(c.sheet); err != nil {
			c.facade.Close()
			return err
		}
	}
	return nil
}

// read runs fn against the opened workbook without saving.
func (c *cli) read(fn func(f *xlhelper.Facade) error) error {
	if err := c.open(); err != nil {
		return err
	}
	defer c.facade.Close()
	return fn(c.facade)
}

// update runs fn against the opened workbook and saves it in place.
func (c *cli) update(fn func(f *xlhelper.Facade) error, extra ...xlhelper.Option) error {
	if err := c.open(extra...); err != nil {
		return err
	}
	defer c.facade.Close()
	if err := fn(c.facade); err != nil {
		return err
	}
	if err := c.facade.Save(); err != nil {
		return err
	}
	log.Info().Str("file", c.file).Str("sheet", c.facade.ActiveSheet()).Msg("workbook saved")
	return nil
}
