package tui

// UI Layout Constants

const (
	// HighlightSymbol marks the selected row; other rows are indented by its width
	HighlightSymbol = ">> "

	// RowRightMargin keeps the right-aligned URL off the last column
	RowRightMargin = 1

	// Lines reserved below the list
	SelectorFooterLines = 2 // query + help
	PromptFooterLines   = 3 // explanation + query + help

	// ParseFailureLabel replaces the URL of a definition that failed to parse
	ParseFailureLabel = "(Could not parse definition file)"

	promptSymbol = "> "
)
