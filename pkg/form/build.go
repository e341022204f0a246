package form

import (
	"github.com/odvcencio/tradelog/pkg/ui/backend"
	"github.com/odvcencio/tradelog/pkg/ui/geom"
	"github.com/odvcencio/tradelog/pkg/ui/runtime"
)

// Build validates def and creates its widget tree: a two-column grid of
// label/field rows ending with the submit button, which queues onSubmit.
func Build(def *Definition, onSubmit runtime.Callback) (*runtime.Node, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	grid := runtime.NewGrid(2, geom.Size{Width: def.ColumnSpacing, Height: def.RowSpacing})
	root := runtime.NewContainer(grid)
	for _, row := range def.Rows {
		root.Add(runtime.NewLabel(row.Label), buildField(row.Field))
	}

	text := def.Submit
	if text == "" {
		text = "Submit"
	}
	submit := runtime.NewButton(runtime.NewLabel(text), onSubmit,
		runtime.WithBorder(1, backend.ColorBlack),
		runtime.WithFill(backend.ColorCyan))
	root.Add(submit.WithTag(runtime.TagSkip))
	return root, nil
}

func buildField(f Field) *runtime.Node {
	var n *runtime.Node
	switch f.Kind {
	case KindText:
		n = runtime.NewTextBox(f.Value, f.Chars, runtime.WithLines(max(f.Lines, 1)))
	case KindChoice:
		n = runtime.NewDropdown(f.Options, f.Selected)
	case KindGroup:
		n = runtime.NewContainer(runtime.HStack(f.Spacing))
		for _, sub := range f.Fields {
			n.Add(buildField(sub))
		}
	}
	tag, _ := runtime.ParseTag(f.Tag)
	return n.WithTag(tag)
}
