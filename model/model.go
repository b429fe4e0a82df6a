package model

// Record represents a single parsed row of the rename table.
type Record struct {
	Line    int    // 1-based position of the row in the table
	Source  string // Path of the existing file, relative to the parent directory
	NewName string // New base name, without extension
	Fields  int    // Number of fields the row carried
}

// OutcomeKind classifies what happened to a record.
type OutcomeKind int

const (
	Skipped OutcomeKind = iota
	Renamed
	Failed
)

func (k OutcomeKind) String() string {
	switch k {
	case Renamed:
		return "renamed"
	case Failed:
		return "failed"
	default:
		return "skipped"
	}
}

// Outcome is the result of processing one record.
type Outcome struct {
	Kind   OutcomeKind
	Record Record
	Source string // Absolute source path, empty when skipped
	Target string // Absolute target path, empty when skipped
	Err    error
}

// Summary holds the results of a run for display.
type Summary struct {
	Rows      int // Data rows seen, header excluded
	Succeeded int
	Failed    int
	Skipped   int
	LogPath   string
	Message   string
}
