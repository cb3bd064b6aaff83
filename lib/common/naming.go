package common

import (
	"fmt"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/gertd/go-pluralize"
)

var (
	pcOnce sync.Once
	pc     *pluralize.Client
)

func client() *pluralize.Client {
	pcOnce.Do(func() {
		pc = pluralize.NewClient()
	})
	return pc
}

// Count formats a quantity followed by the word in singular or plural, like
// "1 file" or "1,234 lines".
func Count(n int, word string) string {
	if n == 1 || n == -1 {
		word = client().Singular(word)
	} else {
		word = client().Plural(word)
	}

	return fmt.Sprintf("%v %v", humanize.Comma(int64(n)), word)
}
