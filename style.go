package xlhelper

// Style describes the formatting ApplyStyle sets on a cell. Unset parts are
// left at the engine's defaults. Fields are not validated here.
type Style struct {
	Font         *Font      `yaml:"font,omitempty"`
	Fill         *Fill      `yaml:"fill,omitempty"`
	Border       []Border   `yaml:"border,omitempty"`
	Alignment    *Alignment `yaml:"alignment,omitempty"`
	NumberFormat string     `yaml:"number_format,omitempty"` // e.g. "#,##0.00"
}

// Font settings. Color is an RGB hex string such as "FF0000".
type Font struct {
	Bold      bool    `yaml:"bold,omitempty"`
	Italic    bool    `yaml:"italic,omitempty"`
	Underline bool    `yaml:"underline,omitempty"`
	Strike    bool    `yaml:"strike,omitempty"`
	Size      float64 `yaml:"size,omitempty"`
	Family    string  `yaml:"family,omitempty"`
	Color     string  `yaml:"color,omitempty"`
}

// Fill is a pattern fill; Pattern 0 means solid.
type Fill struct {
	Color   string `yaml:"color"`
	Pattern int    `yaml:"pattern,omitempty"`
}

// Border draws one side of the cell. Side is left, right, top or bottom;
// Style follows the xlsx border style index (1 = thin, 2 = medium, ...).
type Border struct {
	Side  string `yaml:"side"`
	Style int    `yaml:"style,omitempty"`
	Color string `yaml:"color,omitempty"`
}

// Alignment of cell content.
type Alignment struct {
	Horizontal string `yaml:"horizontal,omitempty"`
	Vertical   string `yaml:"vertical,omitempty"`
	WrapText   bool   `yaml:"wrap_text,omitempty"`
}

// EffectivePattern returns the pattern index, defaulting to solid.
func (f *Fill) EffectivePattern() int {
	if f.Pattern == 0 {
		return 1
	}
	return f.Pattern
}

// EffectiveStyle returns the border style index, defaulting to thin.
func (b Border) EffectiveStyle() int {
	if b.Style == 0 {
		return 1
	}
	return b.Style
}
