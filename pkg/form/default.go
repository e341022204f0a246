package form

var yesNo = []string{"Yes", "No"}

// Default returns the built-in trade entry form.
func Default() *Definition {
	return &Definition{
		Name:          "trade",
		ColumnSpacing: 2,
		RowSpacing:    1,
		Rows: []Row{
			{Label: "Symbol:", Field: Field{Kind: KindText, Tag: "symbol", Chars: 6}},
			{Label: "Strategy:", Field: Field{Kind: KindChoice, Tag: "strategy", Options: []string{"Trend", "Mean Reversion"}}},
			{Label: "Volume:", Field: Field{Kind: KindChoice, Options: yesNo}},
			{Label: "Gap:", Field: Field{Kind: KindChoice, Options: yesNo}},
			{Label: "Range:", Field: Field{Kind: KindChoice, Options: yesNo}},
			{Label: "Level:", Field: Field{Kind: KindGroup, Spacing: 1, Fields: []Field{
				{Kind: KindChoice, Options: []string{"LEVEL_C", "LEVEL_A", "LEVEL_D", "LEVEL_B", "LEVEL_E", "LEVEL_F", "LEVEL_G"}},
				{Kind: KindChoice, Options: []string{" ", "Minus"}},
			}}},
			{Label: "Pattern:", Field: Field{Kind: KindText, Chars: 30}},
			{Label: "Portfolio:", Field: Field{Kind: KindChoice, Tag: "portfolio", Options: []string{"A", "B"}}},
		},
		Submit: "Submit",
	}
}
