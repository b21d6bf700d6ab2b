package logger

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultLevel is used when no directive sets a default level.
const DefaultLevel = "warn"

// Filter decides which diagnostics are written.
//
// A filter spec is a comma-separated list of directives. A bare level
// ("debug") sets the default; "component=level" overrides one component.
// Example: "info,playback=trace,process=off".
type Filter struct {
	defaultLevel string
	components   map[string]string
}

// ParseFilter parses a filter spec. When debug is true the default level is
// lowered to debug unless the spec already asks for trace.
func ParseFilter(spec string, debug bool) (Filter, error) {
	f := Filter{defaultLevel: DefaultLevel, components: map[string]string{}}

	for _, raw := range strings.Split(spec, ",") {
		directive := strings.TrimSpace(raw)
		if directive == "" {
			continue
		}

		component, level, hasComponent := strings.Cut(directive, "=")
		if !hasComponent {
			level = directive
		}

		normalized := normalizeLogLevel(level)
		if normalized == "" {
			return f, fmt.Errorf("invalid log directive %q: unknown level %q", directive, level)
		}

		if hasComponent {
			component = strings.TrimSpace(component)
			if component == "" {
				return f, fmt.Errorf("invalid log directive %q: empty component", directive)
			}
			f.components[component] = normalized
		} else {
			f.defaultLevel = normalized
		}
	}

	if debug && logLevelToInt(f.defaultLevel) > levelDebug {
		f.defaultLevel = "debug"
	}

	return f, nil
}

// Enabled reports whether a message at level from component passes the filter.
func (f Filter) Enabled(component, level string) bool {
	threshold := f.defaultLevel
	if threshold == "" {
		threshold = DefaultLevel
	}
	if override, ok := f.components[component]; ok {
		threshold = override
	}

	msg := logLevelToInt(normalizeLogLevel(level))
	return msg >= logLevelToInt(threshold) && msg != levelOff
}

// String renders the filter back into directive form with components sorted.
func (f Filter) String() string {
	parts := []string{f.defaultLevel}
	names := make([]string, 0, len(f.components))
	for name := range f.components {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		parts = append(parts, name+"="+f.components[name])
	}
	return strings.Join(parts, ",")
}
