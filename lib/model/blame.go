package model

type BlameEntry struct {
	Line        int
	CommitID    string
	AuthorName  string
	AuthorEmail string
}

type BlameResult struct {
	Path     string
	Revision string
	Lines    []*BlameEntry
}

func (b *BlameResult) Entry(line int) (*BlameEntry, bool) {
	if line < 0 || line >= len(b.Lines) {
		return nil, false
	}

	return b.Lines[line], true
}

func (b *BlameResult) LineCount() int {
	return len(b.Lines)
}
