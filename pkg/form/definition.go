// Package form describes trade-journal forms declaratively and builds them
// into widget trees. Definitions load from YAML or TOML.
package form

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/odvcencio/tradelog/pkg/errors"
	"github.com/odvcencio/tradelog/pkg/ui/runtime"
)

// FieldKind selects the widget a field builds.
type FieldKind string

const (
	KindText   FieldKind = "text"
	KindChoice FieldKind = "choice"
	// KindGroup lays its fields out side by side.
	KindGroup FieldKind = "group"
)

// Format is a definition file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Definition is a two-column form: one label and one field per row, then
// a submit button.
type Definition struct {
	Name string `yaml:"name" toml:"name"`
	// ColumnSpacing and RowSpacing are in cells.
	ColumnSpacing float32 `yaml:"column_spacing" toml:"column_spacing"`
	RowSpacing    float32 `yaml:"row_spacing" toml:"row_spacing"`
	Rows          []Row   `yaml:"rows" toml:"rows"`
	// Submit is the button text. Empty means "Submit".
	Submit string `yaml:"submit,omitempty" toml:"submit,omitempty"`
}

type Row struct {
	Label string `yaml:"label" toml:"label"`
	Field Field  `yaml:"field" toml:"field"`
}

// Field is one input. Which attributes apply depends on Kind.
type Field struct {
	Kind FieldKind `yaml:"kind" toml:"kind"`
	// Tag routes the field's text into the document header: symbol,
	// strategy or portfolio.
	Tag string `yaml:"tag,omitempty" toml:"tag,omitempty"`

	// text
	Value string `yaml:"value,omitempty" toml:"value,omitempty"`
	Chars int    `yaml:"chars,omitempty" toml:"chars,omitempty"`
	Lines int    `yaml:"lines,omitempty" toml:"lines,omitempty"`

	// choice
	Options  []string `yaml:"options,omitempty" toml:"options,omitempty"`
	Selected int      `yaml:"selected,omitempty" toml:"selected,omitempty"`

	// group
	Spacing float32 `yaml:"spacing,omitempty" toml:"spacing,omitempty"`
	Fields  []Field `yaml:"fields,omitempty" toml:"fields,omitempty"`
}

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".toml":
		return FormatTOML, true
	default:
		return "", false
	}
}

// Load reads and validates a definition file.
func Load(path string) (*Definition, error) {
	format, ok := FormatFor(path)
	if !ok {
		return nil, errors.Newf(errors.ErrCodeFormInvalid, "unsupported form file %s", path).
			WithRemediation("use a .yaml, .yml or .toml file")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigLoad, "read form definition").WithContext("path", path)
	}
	def, err := Parse(data, format)
	if err != nil {
		if e, ok := errors.As(err); ok {
			e.WithContext("path", path)
		}
		return nil, err
	}
	return def, nil
}

// Parse decodes and validates a definition.
func Parse(data []byte, format Format) (*Definition, error) {
	var def Definition
	var err error
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&def)
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&def)
	default:
		return nil, errors.Newf(errors.ErrCodeFormInvalid, "unknown format %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigParse, "decode form definition").
			WithContext("format", string(format))
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// Marshal encodes def.
func Marshal(def *Definition, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(def)
	case FormatTOML:
		return toml.Marshal(def)
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidInput, "unknown format %q", format)
	}
}

// Validate checks that every row builds.
func (d *Definition) Validate() error {
	if len(d.Rows) == 0 {
		return errors.New(errors.ErrCodeFormInvalid, "form has no rows")
	}
	if d.ColumnSpacing < 0 || d.RowSpacing < 0 {
		return errors.New(errors.ErrCodeFormInvalid, "spacing must not be negative")
	}
	for i, row := range d.Rows {
		if err := row.Field.validate(); err != nil {
			return errors.Wrap(err, errors.ErrCodeFormInvalid, fmt.Sprintf("row %d (%s)", i+1, row.Label)).
				WithContext("row", i+1)
		}
	}
	return nil
}

func (f *Field) validate() error {
	if tag, ok := runtime.ParseTag(f.Tag); !ok || tag == runtime.TagSkip {
		return fmt.Errorf("unknown tag %q", f.Tag)
	}
	switch f.Kind {
	case KindText:
		if f.Chars <= 0 {
			return fmt.Errorf("text field needs chars > 0")
		}
		if f.Lines < 0 {
			return fmt.Errorf("negative line count")
		}
		if w, room := runewidth.StringWidth(f.Value), f.Chars*max(f.Lines, 1); w > room {
			return fmt.Errorf("value %q is %d cells wide, box holds %d", f.Value, w, room)
		}
	case KindChoice:
		if len(f.Options) == 0 {
			return fmt.Errorf("choice field needs options")
		}
		if f.Selected < 0 || f.Selected >= len(f.Options) {
			return fmt.Errorf("selected %d out of range [0, %d)", f.Selected, len(f.Options))
		}
	case KindGroup:
		if len(f.Fields) == 0 {
			return fmt.Errorf("group needs fields")
		}
		for i := range f.Fields {
			if err := f.Fields[i].validate(); err != nil {
				return fmt.Errorf("group field %d: %w", i+1, err)
			}
		}
	default:
		return fmt.Errorf("unknown kind %q", f.Kind)
	}
	return nil
}
