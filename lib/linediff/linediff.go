package linediff

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/pescuma/reviewers-by-blame/lib/model"
)

type Diff struct {
	Type  Operation
	Lines int
}

type Operation int8

const (
	DiffDelete Operation = Operation(diffmatchpatch.DiffDelete)
	DiffInsert Operation = Operation(diffmatchpatch.DiffInsert)
	DiffEqual  Operation = Operation(diffmatchpatch.DiffEqual)
)

const defaultTimeout = 5 * time.Second

// Lines are encoded as one rune each, skipping the surrogate block, which
// does not survive a round trip through a string.
const (
	surrogateMin = 0xD800
	surrogateMax = 0xDFFF

	maxDistinctLines = utf8.MaxRune + 1 - (surrogateMax - surrogateMin + 1)
)

func Do(src, dst string) []Diff {
	return DoWithTimeout(src, dst, defaultTimeout)
}

func DoWithTimeout(src, dst string, timeout time.Duration) []Diff {
	return doWithLimit(src, dst, timeout, maxDistinctLines)
}

// doWithLimit replaces the whole text when the texts have more distinct
// lines than can be encoded.
func doWithLimit(src, dst string, timeout time.Duration, limit int) []Diff {
	wSrc, wDst, ok := textsToLineIndexes(src, dst, limit)
	if !ok {
		return replaceAll(len(splitLines(src)), len(splitLines(dst)))
	}

	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = timeout
	dmpd := dmp.DiffMainRunes(wSrc, wDst, false)
	diffs := lineIndexesToDiff(dmpd)
	return diffs
}

func replaceAll(srcLines, dstLines int) []Diff {
	var result []Diff
	if srcLines > 0 {
		result = append(result, Diff{Type: DiffDelete, Lines: srcLines})
	}
	if dstLines > 0 {
		result = append(result, Diff{Type: DiffInsert, Lines: dstLines})
	}
	return result
}

// Edits groups the non equal parts of a diff into replaced regions.
func Edits(diffs []Diff) []model.Edit {
	var result []model.Edit

	a, b := 0, 0
	var current *model.Edit

	flush := func() {
		if current != nil {
			result = append(result, *current)
			current = nil
		}
	}
	start := func() {
		if current == nil {
			current = &model.Edit{BeginA: a, EndA: a, BeginB: b, EndB: b}
		}
	}

	for _, d := range diffs {
		switch d.Type {
		case DiffEqual:
			flush()
			a += d.Lines
			b += d.Lines

		case DiffDelete:
			start()
			a += d.Lines
			current.EndA = a

		case DiffInsert:
			start()
			b += d.Lines
			current.EndB = b
		}
	}
	flush()

	return result
}

// CountLines counts lines the way blame does: a trailing new line does not
// start a new line.
func CountLines(text string) int {
	return len(splitLines(text))
}

func lineIndexesToDiff(diffs []diffmatchpatch.Diff) []Diff {
	hydrated := make([]Diff, 0, len(diffs))
	for _, aDiff := range diffs {
		hydrated = append(hydrated, Diff{
			Type: Operation(aDiff.Type),
			// Each line is encoded as one rune
			Lines: utf8.RuneCountInString(aDiff.Text),
		})
	}
	return hydrated
}

func textsToLineIndexes(text1, text2 string, limit int) ([]rune, []rune, bool) {
	lineToIndex := make(map[string]int)

	indexes1, ok := textToLineIndexes(text1, lineToIndex, limit)
	if !ok {
		return nil, nil, false
	}

	indexes2, ok := textToLineIndexes(text2, lineToIndex, limit)
	if !ok {
		return nil, nil, false
	}

	return indexes1, indexes2, true
}

func textToLineIndexes(text string, lineToIndex map[string]int, limit int) ([]rune, bool) {
	lines := splitLines(text)

	result := make([]rune, len(lines))
	for i, line := range lines {
		lineValue, ok := lineToIndex[line]

		if !ok {
			lineValue = len(lineToIndex)
			if lineValue >= limit {
				return nil, false
			}
			lineToIndex[line] = lineValue
		}

		result[i] = indexToRune(lineValue)
	}
	return result, true
}

func indexToRune(i int) rune {
	if i >= surrogateMin {
		i += surrogateMax - surrogateMin + 1
	}
	return rune(i)
}

func splitLines(text string) []string {
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
