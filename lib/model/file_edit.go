package model

import "fmt"

type ChangeKind int

const (
	FileAdded ChangeKind = iota
	FileModified
	FileDeleted
	FileRenamed
	FileCopied
)

func (k ChangeKind) String() string {
	switch k {
	case FileAdded:
		return "ADDED"
	case FileModified:
		return "MODIFIED"
	case FileDeleted:
		return "DELETED"
	case FileRenamed:
		return "RENAMED"
	case FileCopied:
		return "COPIED"
	default:
		return fmt.Sprintf("ChangeKind(%d)", int(k))
	}
}

// Edit is a contiguous replaced region: [BeginA, EndA) in the old content
// was replaced by [BeginB, EndB) in the new content. Line indexes are 0 based.
type Edit struct {
	BeginA int
	EndA   int
	BeginB int
	EndB   int
}

func (e Edit) LengthA() int {
	return e.EndA - e.BeginA
}

func (e Edit) LengthB() int {
	return e.EndB - e.BeginB
}

func (e Edit) String() string {
	return fmt.Sprintf("Edit[%d-%d,%d-%d]", e.BeginA, e.EndA, e.BeginB, e.EndB)
}

type FileEdit struct {
	// Path is the new name of the file. For deleted files it is the name the
	// file had before being deleted.
	Path    string
	OldPath string
	Kind    ChangeKind
	Edits   []Edit
}

func (f *FileEdit) LinesTouchedInOld() int {
	result := 0
	for _, e := range f.Edits {
		result += e.LengthA()
	}
	return result
}
