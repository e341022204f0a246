package form

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/tradelog/pkg/errors"
	"github.com/odvcencio/tradelog/pkg/ui/runtime"
)

const scalpYAML = `
name: scalp
column_spacing: 1
row_spacing: 0
rows:
  - label: "Ticker:"
    field: {kind: text, tag: symbol, chars: 5, value: NVDA}
  - label: "Setup:"
    field: {kind: choice, tag: strategy, options: [Breakout, Fade], selected: 1}
  - label: "Book:"
    field: {kind: choice, tag: portfolio, options: [Main]}
submit: Log it
`

const scalpTOML = `
name = "scalp"
column_spacing = 1.0
row_spacing = 0.0
submit = "Log it"

[[rows]]
label = "Ticker:"
[rows.field]
kind = "text"
tag = "symbol"
chars = 5
value = "NVDA"

[[rows]]
label = "Setup:"
[rows.field]
kind = "choice"
tag = "strategy"
options = ["Breakout", "Fade"]
selected = 1

[[rows]]
label = "Book:"
[rows.field]
kind = "choice"
tag = "portfolio"
options = ["Main"]
`

func TestDefault_BuildsTradeForm(t *testing.T) {
	root, err := Build(Default(), nil)
	require.NoError(t, err)

	// Eight label/field pairs and the submit button.
	require.Len(t, root.Children(), 17)
	submit := root.Children()[16]
	assert.Equal(t, runtime.KindButton, submit.Kind())
	assert.Equal(t, runtime.TagSkip, submit.Tag())

	var doc runtime.Document
	root.Serialize(&doc)
	assert.Equal(t, "", doc.Symbol)
	assert.Equal(t, "Trend", doc.Strategy)
	assert.Equal(t, "A", doc.Portfolio)

	labels := make([]string, 0, len(doc.Fields))
	for _, f := range doc.Fields {
		labels = append(labels, f.Label)
	}
	assert.Equal(t, []string{"Symbol", "Strategy", "Volume", "Gap", "Range", "Level", "Pattern", "Portfolio"}, labels)
	assert.Equal(t, "Yes", doc.Fields[2].Value)
}

func TestDefault_LevelIsTwoDropdownsSideBySide(t *testing.T) {
	root, err := Build(Default(), nil)
	require.NoError(t, err)

	level := root.Children()[11]
	assert.Equal(t, runtime.KindContainer, level.Kind())
	require.Len(t, level.Children(), 2)
	for _, c := range level.Children() {
		assert.Equal(t, runtime.KindDropdown, c.Kind())
	}
	first := level.Children()[0].Behavior().(*runtime.Dropdown)
	assert.Equal(t, "LEVEL_C", first.Value())
	assert.Len(t, first.Options(), 7)
}

func TestParse_YAMLAndTOMLAgree(t *testing.T) {
	fromYAML, err := Parse([]byte(scalpYAML), FormatYAML)
	require.NoError(t, err)
	fromTOML, err := Parse([]byte(scalpTOML), FormatTOML)
	require.NoError(t, err)
	assert.Equal(t, fromYAML, fromTOML)

	root, err := Build(fromTOML, nil)
	require.NoError(t, err)
	var doc runtime.Document
	root.Serialize(&doc)
	assert.Equal(t, "NVDA - Fade", doc.Title())
	assert.Equal(t, "Main", doc.Portfolio)
	assert.Len(t, doc.Fields, 3)
}

func TestMarshal_DefaultReloads(t *testing.T) {
	for _, format := range []Format{FormatYAML, FormatTOML} {
		t.Run(string(format), func(t *testing.T) {
			data, err := Marshal(Default(), format)
			require.NoError(t, err)
			def, err := Parse(data, format)
			require.NoError(t, err)
			assert.Equal(t, Default(), def)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		code errors.ErrorCode
	}{
		{"malformed", "rows: [", errors.ErrCodeConfigParse},
		{"unknown key", "rows: []\ncolour: red\n", errors.ErrCodeConfigParse},
		{"no rows", "name: empty\n", errors.ErrCodeFormInvalid},
		{"bad kind", "rows:\n  - label: x\n    field: {kind: slider}\n", errors.ErrCodeFormInvalid},
		{"bad tag", "rows:\n  - label: x\n    field: {kind: text, chars: 3, tag: ticker}\n", errors.ErrCodeFormInvalid},
		{"skip tag", "rows:\n  - label: x\n    field: {kind: text, chars: 3, tag: skip}\n", errors.ErrCodeFormInvalid},
		{"zero chars", "rows:\n  - label: x\n    field: {kind: text}\n", errors.ErrCodeFormInvalid},
		{"value wider than box", "rows:\n  - label: x\n    field: {kind: text, chars: 3, value: ABCD}\n", errors.ErrCodeFormInvalid},
		{"value wider than lines", "rows:\n  - label: x\n    field: {kind: text, chars: 2, lines: 2, value: ABCDE}\n", errors.ErrCodeFormInvalid},
		{"no options", "rows:\n  - label: x\n    field: {kind: choice}\n", errors.ErrCodeFormInvalid},
		{"selected out of range", "rows:\n  - label: x\n    field: {kind: choice, options: [a], selected: 1}\n", errors.ErrCodeFormInvalid},
		{"empty group", "rows:\n  - label: x\n    field: {kind: group}\n", errors.ErrCodeFormInvalid},
		{"bad group member", "rows:\n  - label: x\n    field: {kind: group, fields: [{kind: choice}]}\n", errors.ErrCodeFormInvalid},
		{"negative spacing", "row_spacing: -1\nrows:\n  - label: x\n    field: {kind: text, chars: 1}\n", errors.ErrCodeFormInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), FormatYAML)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, tt.code), "got %v", err)
		})
	}
}

func TestParse_ValueFillingBoxIsValid(t *testing.T) {
	data := "rows:\n  - label: x\n    field: {kind: text, chars: 2, lines: 2, value: ABCD}\n"
	_, err := Parse([]byte(data), FormatYAML)
	require.NoError(t, err)
}

func TestValidate_ReportsRow(t *testing.T) {
	def := Default()
	def.Rows[3].Field.Selected = 5

	err := def.Validate()
	require.Error(t, err)
	e, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, 4, e.Context["row"])
	assert.Contains(t, err.Error(), "Gap:")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scalp.toml")
	require.NoError(t, os.WriteFile(path, []byte(scalpTOML), 0o644))

	def, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "scalp", def.Name)
	assert.Equal(t, "Log it", def.Submit)

	_, err = Load(filepath.Join(dir, "scalp.json"))
	assert.True(t, errors.IsCode(err, errors.ErrCodeFormInvalid))

	_, err = Load(filepath.Join(dir, "missing.yml"))
	assert.True(t, errors.IsCode(err, errors.ErrCodeConfigLoad))
}

func TestBuild_SubmitQueuesCallback(t *testing.T) {
	var called bool
	def := Default()
	def.Submit = ""
	root, err := Build(def, func(*runtime.App) { called = true })
	require.NoError(t, err)

	submit := root.Children()[len(root.Children())-1]
	label := submit.Children()[0].Behavior().(*runtime.Label)
	assert.Equal(t, "Submit", label.Text())
	assert.False(t, called)
}
