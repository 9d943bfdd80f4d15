package executor

import (
	"fmt"

	"github.com/victoralfred/winexec/winepath"
)

// Value is a single argument token. Path-typed values are converted by
// the active path translator before launch; plain strings pass through
// unchanged.
type Value struct {
	s    string
	path bool
}

// String makes a plain string token.
func String(s string) Value {
	return Value{s: s}
}

// Path makes a path-typed token that will be translated to the target
// platform's path form.
func Path(p string) Value {
	return Value{s: p, path: true}
}

// Stringify makes a plain token from any value via fmt.Sprint.
func Stringify(v any) Value {
	return Value{s: fmt.Sprint(v)}
}

// IsPath reports whether the token is path-typed.
func (v Value) IsPath() bool { return v.path }

// Raw returns the untranslated token.
func (v Value) Raw() string { return v.s }

// Group is one argument group: either a bare positional token or a
// flag with its value. A flag and its value are always emitted as two
// consecutive tokens, never concatenated.
type Group struct {
	values []Value
}

// Positional makes a single-token group.
func Positional(v Value) Group {
	return Group{values: []Value{v}}
}

// Flag makes a single-token group from a bare option string.
func Flag(flag string) Group {
	return Positional(String(flag))
}

// Pair makes a flag+value group.
func Pair(flag string, value Value) Group {
	return Group{values: []Value{String(flag), value}}
}

// expand renders the group's tokens, translating path-typed values.
func (g Group) expand(t winepath.Translator) []string {
	out := make([]string, len(g.values))
	for i, v := range g.values {
		if v.path {
			out[i] = t.ToTarget(v.s)
		} else {
			out[i] = v.s
		}
	}
	return out
}

// expandGroups flattens groups in order into a single argument vector.
func expandGroups(groups []Group, t winepath.Translator) []string {
	var out []string
	for _, g := range groups {
		out = append(out, g.expand(t)...)
	}
	return out
}
