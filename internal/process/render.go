package process

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/harrison/proofdriver/internal/models"
)

// RenderCommand renders spec as a copy-pasteable shell command line.
// Environment overrides come first, sorted by key.
func RenderCommand(spec models.CommandSpec) string {
	keys := make([]string, 0, len(spec.Env))
	for k := range spec.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		parts = append(parts, k+"="+shellquote.Join(spec.Env[k]))
	}

	words := append([]string{spec.Program}, spec.Args...)
	parts = append(parts, shellquote.Join(words...))
	return strings.Join(parts, " ")
}

// echoCommand prints the rendered command line when verbose.
func echoCommand(v Verbosity, spec models.CommandSpec) {
	if v.Verbose() {
		fmt.Fprintf(stdout, "[proofdriver] Running: `%s`\n", RenderCommand(spec))
	}
}
