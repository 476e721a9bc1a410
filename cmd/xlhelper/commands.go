package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/javajack/xlhelper"
)

func (c *cli) newCmd() *cobra.Command {
	var sheets []string
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create an empty workbook at --file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := os.Stat(c.file); err == nil {
				return fmt.Errorf("%s already exists", c.file)
			}
			opts, err := c.options()
			if err != nil {
				return err
			}
			f := xlhelper.New(c.file, opts...)
			if err := f.CreateNew(); err != nil {
				return err
			}
			defer f.Close()
			for _, name := range sheets {
				if err := f.CreateSheet(name); err != nil {
					return err
				}
			}
			return f.Save()
		},
	}
	cmd.Flags().StringSliceVar(&sheets, "add-sheet", nil, "extra sheets to create")
	return cmd
}

func (c *cli) sheetsCmd() *cobra.Command {
	var create string
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "List sheets, or add one with --create",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if create != "" {
				return c.update(func(f *xlhelper.Facade) error {
					return f.CreateSheet(create)
				})
			}
			return c.read(func(f *xlhelper.Facade) error {
				for _, name := range f.SheetNames() {
					marker := ""
					if name == f.ActiveSheet() {
						marker = " *"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", name, marker)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&create, "create", "", "name of a sheet to add")
	return cmd
}

func (c *cli) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get CELL",
		Short: "Print a cell value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := xlhelper.ParseCellRef(args[0])
			if err != nil {
				return err
			}
			if err := c.useSheet(ref); err != nil {
				return err
			}
			return c.read(func(f *xlhelper.Facade) error {
				v, err := f.ReadCell(ref.Row, ref.Col)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), xlhelper.RenderValue(v))
				return nil
			})
		},
	}
}

func (c *cli) setCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set CELL VALUE",
		Short: "Write a cell value (numbers and TRUE/FALSE are typed; prefix ' to keep text)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := xlhelper.ParseCellRef(args[0])
			if err != nil {
				return err
			}
			if err := c.useSheet(ref); err != nil {
				return err
			}
			return c.update(func(f *xlhelper.Facade) error {
				return f.WriteCell(ref.Row, ref.Col, parseValue(args[1]))
			})
		},
	}
}

func (c *cli) rowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "row ROW [VALUE...]",
		Short: "Print a row, or write values into it from column A",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			row, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid row %q: %w", args[0], err)
			}
			if len(args) > 1 {
				return c.update(func(f *xlhelper.Facade) error {
					return f.WriteRow(row, parseValues(args[1:]))
				})
			}
			return c.read(func(f *xlhelper.Facade) error {
				values, err := f.ReadRow(row)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderLine(values))
				return nil
			})
		},
	}
}

func (c *cli) columnCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "column COLUMN [VALUE...]",
		Short: "Print a column, or write values down it from row 1",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			col, err := xlhelper.LettersToCol(args[0])
			if err != nil {
				return err
			}
			if len(args) > 1 {
				return c.update(func(f *xlhelper.Facade) error {
					return f.WriteColumn(col, parseValues(args[1:]))
				})
			}
			return c.read(func(f *xlhelper.Facade) error {
				values, err := f.ReadColumn(col)
				if err != nil {
					return err
				}
				for _, v := range values {
					fmt.Fprintln(cmd.OutOrStdout(), xlhelper.RenderValue(v))
				}
				return nil
			})
		},
	}
}

func (c *cli) rangeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "range RANGE",
		Short: "Print a rectangle of cells, one tab-separated row per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rng, err := xlhelper.ParseRange(args[0])
			if err != nil {
				return err
			}
			if err := c.useSheet(rng.First, rng.Last); err != nil {
				return err
			}
			return c.read(func(f *xlhelper.Facade) error {
				grid, err := f.ReadRange(rng.First.Row, rng.First.Col, rng.Last.Row, rng.Last.Col)
				if err != nil {
					return err
				}
				for _, values := range grid {
					fmt.Fprintln(cmd.OutOrStdout(), renderLine(values))
				}
				return nil
			})
		},
	}
}

func (c *cli) formulaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formula CELL [FORMULA]",
		Short: "Print a cell formula, or set one",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := xlhelper.ParseCellRef(args[0])
			if err != nil {
				return err
			}
			if err := c.useSheet(ref); err != nil {
				return err
			}
			if len(args) == 2 {
				formula := args[1]
				if !strings.HasPrefix(formula, "=") {
					formula = "=" + formula
				}
				return c.update(func(f *xlhelper.Facade) error {
					return f.SetFormula(ref.Row, ref.Col, formula)
				})
			}
			return c.read(func(f *xlhelper.Facade) error {
				formula, err := f.GetFormula(ref.Row, ref.Col)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), formula)
				return nil
			})
		},
	}
}

func (c *cli) copyFormulaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "copy-formula FROM TO...",
		Short: "Copy a formula, shifting relative references",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := xlhelper.ParseCellRef(args[0])
			if err != nil {
				return err
			}
			targets, err := parseCells(args[1:])
			if err != nil {
				return err
			}
			if err := c.useSheet(append(targets, from)...); err != nil {
				return err
			}
			return c.update(func(f *xlhelper.Facade) error {
				for _, to := range targets {
					if err := f.CopyFormula(from.Row, from.Col, to.Row, to.Col); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

type aggregateFunc func(f *xlhelper.Facade, startRow, startCol, endRow, endCol, resultRow, resultCol int) error

func (c *cli) aggregateCmd(use, fn string, aggregate aggregateFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use + " RANGE RESULT",
		Short: "Store =" + fn + "(RANGE) in the RESULT cell",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rng, err := xlhelper.ParseRange(args[0])
			if err != nil {
				return err
			}
			result, err := xlhelper.ParseCellRef(args[1])
			if err != nil {
				return err
			}
			if err := c.useSheet(rng.First, rng.Last, result); err != nil {
				return err
			}
			return c.update(func(f *xlhelper.Facade) error {
				return aggregate(f, rng.First.Row, rng.First.Col, rng.Last.Row, rng.Last.Col, result.Row, result.Col)
			})
		},
	}
}

func (c *cli) ifCmd() *cobra.Command {
	var op, threshold string
	cmd := &cobra.Command{
		Use:   "if COND TRUE FALSE RESULT",
		Short: `Store =IF(COND, "TRUE", "FALSE") in the RESULT cell`,
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			cells, err := parseCells([]string{args[0], args[3]})
			if err != nil {
				return err
			}
			if err := c.useSheet(cells...); err != nil {
				return err
			}
			cond, result := cells[0], cells[1]
			var extra []xlhelper.Option
			if op != "" {
				extra = append(extra, xlhelper.WithIfComparison(op, parseValue(threshold)))
			}
			return c.update(func(f *xlhelper.Facade) error {
				return f.IfFormula(cond.Row, cond.Col, args[1], args[2], result.Row, result.Col)
			}, extra...)
		},
	}
	cmd.Flags().StringVar(&op, "op", "", "compare COND with --threshold using = <> < <= > >=")
	cmd.Flags().StringVar(&threshold, "threshold", "0", "value COND is compared with")
	return cmd
}

func (c *cli) vlookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vlookup LOOKUP TABLE COLINDEX RESULT",
		Short: "Store =VLOOKUP(LOOKUP,TABLE,COLINDEX,FALSE) in the RESULT cell",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			cells, err := parseCells([]string{args[0], args[3]})
			if err != nil {
				return err
			}
			table, err := xlhelper.ParseRange(args[1])
			if err != nil {
				return err
			}
			colIndex, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid column index %q: %w", args[2], err)
			}
			if err := c.useSheet(append(cells, table.First, table.Last)...); err != nil {
				return err
			}
			lookup, result := cells[0], cells[1]
			return c.update(func(f *xlhelper.Facade) error {
				return f.Vlookup(lookup.Row, lookup.Col,
					table.First.Row, table.First.Col, table.Last.Row, table.Last.Col,
					colIndex, result.Row, result.Col)
			})
		},
	}
}

func (c *cli) styleCmd() *cobra.Command {
	var stylePath string
	cmd := &cobra.Command{
		Use:   "style CELL...",
		Short: "Apply a YAML style file to cells",
		Example: `  # header.yaml
  font: {bold: true, color: "FFFFFF"}
  fill: {color: "4472C4"}
  border: [{side: bottom, style: 2}]
  number_format: "#,##0.00"

  xlhelper -f report.xlsx style A1 B1 C1 --style header.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			style, err := loadStyle(stylePath)
			if err != nil {
				return err
			}
			targets, err := parseCells(args)
			if err != nil {
				return err
			}
			if err := c.useSheet(targets...); err != nil {
				return err
			}
			return c.update(func(f *xlhelper.Facade) error {
				for _, ref := range targets {
					if err := f.ApplyStyle(ref.Row, ref.Col, style); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&stylePath, "style", "", "YAML style file")
	cmd.MarkFlagRequired("style")
	return cmd
}

func (c *cli) autofitCmd() *cobra.Command {
	var expression string
	cmd := &cobra.Command{
		Use:   "autofit",
		Short: "Size every used column from its longest value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.update(func(f *xlhelper.Facade) error {
				return f.AutoFitColumns()
			}, xlhelper.WithAutoFitExpr(expression))
		},
	}
	cmd.Flags().StringVar(&expression, "expr", xlhelper.DefaultAutoFitExpr, "width expression over maxLen, col and letter")
	return cmd
}

func (c *cli) describeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe",
		Short: "Outline sheets, used ranges and formulas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.read(func(f *xlhelper.Facade) error {
				out, err := f.Describe()
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
}

func loadStyle(path string) (*xlhelper.Style, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read style file: %w", err)
	}
	var style xlhelper.Style
	if err := yaml.Unmarshal(data, &style); err != nil {
		return nil, fmt.Errorf("parse style file %s: %w", path, err)
	}
	return &style, nil
}
