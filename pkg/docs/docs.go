// Package docs serves the embedded help topics shown by the docs
// command.
package docs

import (
	"embed"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/cdpr-lab/cablekit/pkg/errors"
)

//go:embed topics/*.md
var topicsFS embed.FS

// Topics returns the available topic names in sorted order.
func Topics() []string {
	entries, err := topicsFS.ReadDir("topics")
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".md"))
	}
	sort.Strings(names)
	return names
}

// Render returns a topic rendered for the terminal. Rendering falls
// back to the raw markdown when glamour cannot set up a renderer.
func Render(topic string) (string, error) {
	raw, err := topicsFS.ReadFile("topics/" + topic + ".md")
	if err != nil {
		return "", errors.Newf(errors.ErrNotFound, "no docs topic %q (available: %s)", topic, strings.Join(Topics(), ", "))
	}

	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		return string(raw), nil
	}

	rendered, err := renderer.Render(string(raw))
	if err != nil {
		return string(raw), nil
	}
	return rendered, nil
}
