// Package guide provides access to the embedded trainer documentation:
// the main guide plus topic pages for the exercise workflow, configuration,
// LLM providers and installation.
package guide

import (
	"embed"
	"runtime"
	"strings"
)

//go:embed *.md
var files embed.FS

// Get returns the content of a guide page by name. If `name` is empty
// the default "guide" page is returned.
//
// Special case: "install" returns OS-specific instructions based on runtime.GOOS.
func Get(name string) (string, error) {
	if name == "" {
		name = "guide"
	}
	if name == "install" {
		name = "install-" + runtime.GOOS
	}
	data, err := files.ReadFile(name + ".md")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// List returns the available guide topic names (without the .md suffix).
// The per-OS install pages collapse into the single "install" topic users
// actually pass to Get; the default "guide" page is not a topic.
func List() ([]string, error) {
	entries, err := files.ReadDir(".")
	if err != nil {
		return nil, err
	}
	var names []string
	install := false
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), ".md")
		switch {
		case name == "guide":
		case strings.HasPrefix(name, "install-"):
			install = true
		default:
			names = append(names, name)
		}
	}
	if install {
		names = append(names, "install")
	}
	return names, nil
}
