// Package envutil provides environment variable utilities.
package envutil

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// Ambient returns the current process environment as a map.
func Ambient() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if idx := strings.IndexByte(kv, '='); idx > 0 {
			env[kv[:idx]] = kv[idx+1:]
		}
	}
	return env
}

// Merge merges base environment with overrides.
// Overrides take precedence.
func Merge(base, override map[string]string) map[string]string {
	result := make(map[string]string, len(base)+len(override))
	for k, v := range base {
		result[k] = v
	}
	for k, v := range override {
		result[k] = v
	}
	return result
}

// Build creates a sorted KEY=value slice from a map, suitable for
// exec.Cmd.Env. Sorting keeps the slice deterministic.
func Build(env map[string]string) []string {
	result := make([]string, 0, len(env))
	for k, v := range env {
		result = append(result, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(result)
	return result
}
