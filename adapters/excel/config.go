package excel

// ReadOptions controls how a table file is parsed
type ReadOptions struct {
	// Sheet selects the XLSX worksheet; empty means the first sheet.
	Sheet string `json:"sheet"`
	// Delimiter separates CSV fields. Ignored for .tsv and .xlsx files.
	Delimiter rune `json:"delimiter"`
	// Header marks the first row as column names.
	Header bool `json:"header"`
}

// DefaultReadOptions returns comma separated input with a header row
func DefaultReadOptions() ReadOptions {
	return ReadOptions{
		Delimiter: ',',
		Header:    true,
	}
}
