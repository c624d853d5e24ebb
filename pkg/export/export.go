package export

// Dataset defines tabular report content rendered by the exporters.
type Dataset struct {
	Title   string
	Headers []string
	Rows    [][]string
}
