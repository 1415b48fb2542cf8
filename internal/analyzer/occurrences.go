package analyzer

import (
	"regexp"
	"sync"
)

// OccurrenceCounter counts word-boundary matches of symbols in file
// content, memoizing compiled patterns per symbol. It is the secondary
// static analysis behind dead-code reconciliation: a symbol that occurs
// more than once in its own file is used internally and is therefore
// over-exported rather than fully unused. The counter is scoped to one
// pipeline run and discarded with it.
type OccurrenceCounter struct {
	mu       sync.Mutex
	patterns map[string]*regexp.Regexp
}

// NewOccurrenceCounter creates an empty counter
func NewOccurrenceCounter() *OccurrenceCounter {
	return &OccurrenceCounter{patterns: make(map[string]*regexp.Regexp)}
}

// Count returns the number of word-boundary occurrences of symbol in
// content; an empty symbol counts zero
func (c *OccurrenceCounter) Count(content, symbol string) int {
	if symbol == "" {
		return 0
	}
	re := c.pattern(symbol)
	return len(re.FindAllStringIndex(content, -1))
}

func (c *OccurrenceCounter) pattern(symbol string) *regexp.Regexp {
	c.mu.Lock()
	defer c.mu.Unlock()
	if re, ok := c.patterns[symbol]; ok {
		return re
	}
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(symbol) + `\b`)
	c.patterns[symbol] = re
	return re
}
