// Package filter provides an optional expression-based pre-filter over
// torrent snapshots, compiled with the expr language. Operators use it to
// scope the sentinel to a subset of torrents that tag gates alone cannot
// express, e.g.:
//
//	Category == "autobrr" and Ratio < 10.0
//	hasTag("keep") == false and SeedingMinutes > 1440
package filter

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/sentinelarr/qbittorrent"
)

// Filter is a compiled boolean expression over torrent snapshots.
type Filter struct {
	expression string
	program    *vm.Program
}

// Compile compiles a filter expression. The expression must evaluate to a
// boolean.
func Compile(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, fmt.Errorf("empty expression")
	}

	program, err := expr.Compile(expression,
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compile expression %q: %w", expression, err)
	}

	return &Filter{
		expression: expression,
		program:    program,
	}, nil
}

// Expression returns the source expression.
func (f *Filter) Expression() string {
	return f.expression
}

// Match evaluates the filter against one snapshot.
func (f *Filter) Match(t qbittorrent.TorrentSnapshot) (bool, error) {
	env := map[string]any{
		"Name":           t.Name,
		"Hash":           t.Hash,
		"Category":       t.Category,
		"Tags":           t.Tags,
		"State":          t.State,
		"Ratio":          t.Ratio,
		"SeedingMinutes": t.SeedingTime / 60,
		"Uploaded":       t.Uploaded,
		"UpSpeed":        t.UpSpeed,
		"AddedOn":        t.AddedOn,
		"hasTag": func(tag string) bool {
			for _, have := range t.Tags {
				if strings.EqualFold(have, tag) {
					return true
				}
			}
			return false
		},
	}

	out, err := expr.Run(f.program, env)
	if err != nil {
		return false, fmt.Errorf("failed to evaluate expression %q: %w", f.expression, err)
	}

	result, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("expression %q did not return a boolean", f.expression)
	}

	return result, nil
}
