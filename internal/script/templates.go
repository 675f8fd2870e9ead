package script

import (
	"embed"
	"fmt"
	"sort"
)

//go:embed templates/*.lua
var templateFS embed.FS

// Template is a bundled starting point for custom strategies.
type Template struct {
	Name        string
	Title       string
	Description string
	Source      string
}

var templateInfo = map[string]struct{ title, description string }{
	"min": {
		title:       "Always Take Minimum",
		description: "Takes the minimum allowed number of coins from the first available pile.",
	},
	"greedy": {
		title:       "Greedy",
		description: "Takes the maximum allowed number of coins from the first available pile.",
	},
	"nimsum": {
		title:       "Nim-Sum",
		description: "Moves to a zero nim-sum when it can, otherwise takes the minimum.",
	},
	"defensive": {
		title:       "Defensive",
		description: "Tries to keep pile sizes level.",
	},
}

// Templates lists the bundled strategies sorted by name.
func Templates() []Template {
	out := make([]Template, 0, len(templateInfo))
	for name := range templateInfo {
		t, err := LookupTemplate(name)
		if err != nil {
			panic(err)
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// LookupTemplate returns the bundled strategy called name.
func LookupTemplate(name string) (Template, error) {
	info, ok := templateInfo[name]
	if !ok {
		return Template{}, fmt.Errorf("unknown template %q", name)
	}
	src, err := templateFS.ReadFile("templates/" + name + ".lua")
	if err != nil {
		return Template{}, fmt.Errorf("read template %q: %w", name, err)
	}
	return Template{
		Name:        name,
		Title:       info.title,
		Description: info.description,
		Source:      string(src),
	}, nil
}

// Compile compiles the template under its own name.
func (t Template) Compile() (*Strategy, error) {
	return Compile(t.Name, t.Source)
}
