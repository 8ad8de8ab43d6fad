// Package filter compiles expr expressions into predicates over watchlist
// rows, backing the --filter flag of "reelist watchlist list".
//
// The environment exposes ID, Title and Year (numeric, 0 when unknown) plus
// the helper hasPoster(). Example:
//
//	Year >= 2000 and Title contains "Star" and hasPoster()
package filter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/reelist/reelist/watchlist"
)

// CompilationError describes a filter expression that failed to compile.
type CompilationError struct {
	Expression string
	Reason     string
}

// Error implements the error interface.
func (e *CompilationError) Error() string {
	return fmt.Sprintf("invalid filter %q: %s", e.Expression, e.Reason)
}

// Predicate decides whether a watchlist entry matches.
type Predicate func(watchlist.Entry) bool

// Compile turns an expression into a predicate. An empty expression matches
// everything.
func Compile(expression string) (Predicate, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return func(watchlist.Entry) bool { return true }, nil
	}

	program, err := expr.Compile(expression,
		expr.Env(buildEnv(watchlist.Entry{})),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{Expression: expression, Reason: err.Error()}
	}

	return func(entry watchlist.Entry) bool {
		return evaluate(program, entry)
	}, nil
}

// Apply returns the entries matching the predicate, preserving order.
func Apply(list []watchlist.Entry, match Predicate) []watchlist.Entry {
	result := make([]watchlist.Entry, 0, len(list))
	for _, entry := range list {
		if match(entry) {
			result = append(result, entry)
		}
	}
	return result
}

func evaluate(program *vm.Program, entry watchlist.Entry) bool {
	output, err := expr.Run(program, buildEnv(entry))
	if err != nil {
		return false
	}

	matched, ok := output.(bool)
	return ok && matched
}

func buildEnv(entry watchlist.Entry) map[string]any {
	return map[string]any{
		"ID":    entry.ID,
		"Title": entry.Title,
		"Year":  parseYear(entry.Year),
		"hasPoster": func() bool {
			return entry.Poster != "" && entry.Poster != "N/A"
		},
	}
}

// parseYear extracts the leading year from catalog year strings, which may
// be a range like "2008–2013". Unknown years become 0.
func parseYear(year string) int {
	digits := year
	for i, r := range year {
		if r < '0' || r > '9' {
			digits = year[:i]
			break
		}
	}

	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}
