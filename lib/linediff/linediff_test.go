package linediff

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/bloomberg/go-testgroup"

	"github.com/pescuma/reviewers-by-blame/lib/model"
)

func TestDo(t *testing.T) {
	testgroup.RunInParallel(t, &DoTests{})
}

type DoTests struct {
}

func (g *DoTests) Equal(t *testgroup.T) {
	r := Do("a\nb\nc\n", "a\nb\nc\n")

	t.Equal([]Diff{{Type: DiffEqual, Lines: 3}}, r)
}

func (g *DoTests) OneInsert(t *testgroup.T) {
	r := Do("a\nc\n", "a\nb\nc\n")

	t.Equal([]Diff{
		{Type: DiffEqual, Lines: 1},
		{Type: DiffInsert, Lines: 1},
		{Type: DiffEqual, Lines: 1},
	}, r)
}

func (g *DoTests) OneDelete(t *testgroup.T) {
	r := Do("a\nb\nc\n", "a\nc\n")

	t.Equal([]Diff{
		{Type: DiffEqual, Lines: 1},
		{Type: DiffDelete, Lines: 1},
		{Type: DiffEqual, Lines: 1},
	}, r)
}

func (g *DoTests) ManyDistinctLines(t *testgroup.T) {
	var src, dst strings.Builder
	for i := 0; i < 500; i++ {
		line := strings.Repeat("x", i) + "\n"
		src.WriteString(line)
		if i != 300 {
			dst.WriteString(line)
		}
	}

	r := Do(src.String(), dst.String())

	t.Equal([]Diff{
		{Type: DiffEqual, Lines: 300},
		{Type: DiffDelete, Lines: 1},
		{Type: DiffEqual, Lines: 199},
	}, r)
}

func (g *DoTests) LinesPastTheSurrogateBlock(t *testgroup.T) {
	var common strings.Builder
	for i := 0; i < 56000; i++ {
		common.WriteString(fmt.Sprintf("line %v\n", i))
	}

	r := Edits(Do(common.String()+"tail A\n", common.String()+"tail B\n"))

	t.Equal([]model.Edit{{BeginA: 56000, EndA: 56001, BeginB: 56000, EndB: 56001}}, r)
}

func (g *DoTests) TooManyDistinctLinesReplaceEverything(t *testgroup.T) {
	r := doWithLimit("a\nb\n", "a\nb\nc\nd\n", defaultTimeout, 3)

	t.Equal([]Diff{
		{Type: DiffDelete, Lines: 2},
		{Type: DiffInsert, Lines: 4},
	}, r)

	t.Equal([]Diff{{Type: DiffInsert, Lines: 1}}, doWithLimit("", "a\n", defaultTimeout, 0))
}

func (g *DoTests) EveryIndexIsAValidRune(t *testgroup.T) {
	for _, i := range []int{0, surrogateMin - 1, surrogateMin, surrogateMin + 1, maxDistinctLines - 1} {
		t.True(utf8.ValidRune(indexToRune(i)), "%v", i)
	}

	t.Equal(rune(surrogateMin-1), indexToRune(surrogateMin-1))
	t.Equal(rune(surrogateMax+1), indexToRune(surrogateMin))
	t.Equal(rune(utf8.MaxRune), indexToRune(maxDistinctLines-1))
}

func TestEdits(t *testing.T) {
	testgroup.RunInParallel(t, &EditsTests{})
}

type EditsTests struct {
}

func (g *EditsTests) NoChanges(t *testgroup.T) {
	r := Edits([]Diff{{Type: DiffEqual, Lines: 10}})

	t.Empty(r)
}

func (g *EditsTests) Replace(t *testgroup.T) {
	r := Edits([]Diff{
		{Type: DiffEqual, Lines: 2},
		{Type: DiffDelete, Lines: 3},
		{Type: DiffInsert, Lines: 1},
		{Type: DiffEqual, Lines: 5},
	})

	t.Equal([]model.Edit{{BeginA: 2, EndA: 5, BeginB: 2, EndB: 3}}, r)
}

func (g *EditsTests) PureInsertHasEmptyOldRange(t *testgroup.T) {
	r := Edits([]Diff{
		{Type: DiffEqual, Lines: 4},
		{Type: DiffInsert, Lines: 2},
	})

	t.Equal([]model.Edit{{BeginA: 4, EndA: 4, BeginB: 4, EndB: 6}}, r)
	t.Equal(0, r[0].LengthA())
}

func (g *EditsTests) SeveralEdits(t *testgroup.T) {
	r := Edits([]Diff{
		{Type: DiffDelete, Lines: 1},
		{Type: DiffEqual, Lines: 5},
		{Type: DiffInsert, Lines: 2},
		{Type: DiffDelete, Lines: 2},
		{Type: DiffEqual, Lines: 1},
	})

	t.Equal([]model.Edit{
		{BeginA: 0, EndA: 1, BeginB: 0, EndB: 0},
		{BeginA: 6, EndA: 8, BeginB: 5, EndB: 7},
	}, r)
}

func (g *EditsTests) FromTexts(t *testgroup.T) {
	r := Edits(Do("a\nb\nc\nd\n", "a\nB\nc\nd\ne\n"))

	t.Equal([]model.Edit{
		{BeginA: 1, EndA: 2, BeginB: 1, EndB: 2},
		{BeginA: 4, EndA: 4, BeginB: 4, EndB: 5},
	}, r)
}

func TestCountLines(t *testing.T) {
	testgroup.RunInParallel(t, &CountLinesTests{})
}

type CountLinesTests struct {
}

func (g *CountLinesTests) Empty(t *testgroup.T) {
	t.Equal(0, CountLines(""))
}

func (g *CountLinesTests) TrailingNewLine(t *testgroup.T) {
	t.Equal(2, CountLines("a\nb\n"))
}

func (g *CountLinesTests) NoTrailingNewLine(t *testgroup.T) {
	t.Equal(2, CountLines("a\nb"))
}
