// Package prompts holds the embedded prompt templates that drive question
// generation and the helpers that render them. Templates live in JSON files
// keyed by name; placeholders use the {{.Key}} form.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

//go:embed *.json
var templateFS embed.FS

// Parsed template files, keyed by filename. Files are small and parsed at
// most once per process.
var (
	mu    sync.Mutex
	files = map[string]map[string]string{}
)

// Get returns the template stored under key in the named embedded file.
func Get(filename, key string) (string, error) {
	templates, err := load(filename)
	if err != nil {
		return "", err
	}

	template, ok := templates[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return template, nil
}

// MustGet is Get for templates whose absence is a packaging bug: the file is
// embedded at compile time, so a missing key can only mean the template set
// and the code drifted apart.
func MustGet(filename, key string) string {
	template, err := Get(filename, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return template
}

// Format substitutes {{.Key}} placeholders with values from data. Unknown
// placeholders are left in place so missing data stays visible in the
// rendered prompt instead of silently disappearing.
func Format(template string, data map[string]string) string {
	rendered := template
	for key, value := range data {
		rendered = strings.ReplaceAll(rendered, "{{."+key+"}}", value)
	}
	return rendered
}

func load(filename string) (map[string]string, error) {
	mu.Lock()
	defer mu.Unlock()

	if templates, ok := files[filename]; ok {
		return templates, nil
	}

	data, err := templateFS.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}

	var templates map[string]string
	if err := json.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}

	files[filename] = templates
	return templates, nil
}

// resetCache drops parsed files so tests can exercise the load path.
func resetCache() {
	mu.Lock()
	defer mu.Unlock()
	files = map[string]map[string]string{}
}
