package xlhelper

import (
	"strconv"

	"github.com/rs/zerolog"
)

// Options holds configuration for the Facade.
type Options struct {
	engine      Engine
	logger      zerolog.Logger
	comparison  *Comparison
	autoFitExpr string
}

func defaultOptions() *Options {
	return &Options{
		engine:      ExcelizeEngine{},
		logger:      zerolog.Nop(),
		autoFitExpr: DefaultAutoFitExpr,
	}
}

// Option configures the Facade.
type Option func(*Options)

// WithEngine sets the spreadsheet engine (default: ExcelizeEngine).
func WithEngine(e Engine) Option {
	return func(o *Options) { o.engine = e }
}

// WithLogger sets the logger for workbook lifecycle events (default: disabled).
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) { o.logger = l }
}

// WithIfComparison makes IfFormula test <cell><op><threshold> instead of
// the bare cell value. op is one of = <> < <= > >=.
func WithIfComparison(op string, threshold any) Option {
	return func(o *Options) { o.comparison = &Comparison{Op: op, Threshold: threshold} }
}

// WithAutoFitExpr sets the expr-lang expression AutoFitColumns uses for
// column widths (default: "maxLen + 2"). Variables: maxLen, col, letter.
func WithAutoFitExpr(expression string) Option {
	return func(o *Options) { o.autoFitExpr = expression }
}

// WithAutoFitPadding keeps the default width rule with a different padding:
// width = maxLen + padding.
func WithAutoFitPadding(padding int) Option {
	return func(o *Options) { o.autoFitExpr = "maxLen + " + strconv.Itoa(padding) }
}
