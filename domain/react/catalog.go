// Package react defines the textual contract exchanged with the reasoning
// model: the tool catalog, the prompt layout and the completion grammar.
package react

import (
	"fmt"
	"strings"
)

// Tool describes a capability offered to the model in the catalog.
type Tool struct {
	// Name is the identifier the model writes after "Action:".
	Name string
	// Description is a one-line summary of what the tool does.
	Description string
	// Input describes the expected action input.
	Input string
	// Output describes what the observation contains.
	Output string
}

// WebSearchTool is the single search capability offered to the model.
func WebSearchTool(maxResults int) Tool {
	output := "a list of results, each with a title, a snippet and a link"
	if maxResults > 0 {
		output = fmt.Sprintf("up to %d results, each with a title, a snippet and a link", maxResults)
	}
	return Tool{
		Name:        "web_search",
		Description: "Searches the web. Useful for questions about current events, recent facts or anything you are unsure about.",
		Input:       "a short search query on a single line",
		Output:      output,
	}
}

// Catalog is the ordered set of tools rendered into every prompt.
// Changing the tools changes the rendered catalog; the parser only depends
// on tool names.
type Catalog struct {
	tools []Tool
}

// NewCatalog validates and creates a catalog.
func NewCatalog(tools ...Tool) (*Catalog, error) {
	if len(tools) == 0 {
		return nil, ErrEmptyCatalog
	}

	seen := make(map[string]bool, len(tools))
	for _, t := range tools {
		if t.Name == "" || strings.ContainsAny(t.Name, " \t\r\n") {
			return nil, fmt.Errorf("%w: %q", ErrInvalidToolName, t.Name)
		}
		key := strings.ToLower(t.Name)
		if seen[key] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTool, t.Name)
		}
		seen[key] = true
	}

	return &Catalog{tools: append([]Tool(nil), tools...)}, nil
}

// Lookup finds a tool by name, ignoring case.
func (c *Catalog) Lookup(name string) (Tool, bool) {
	for _, t := range c.tools {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return Tool{}, false
}

// Names returns the tool names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.tools))
	for i, t := range c.tools {
		names[i] = t.Name
	}
	return names
}

// Render returns the catalog section of the prompt.
func (c *Catalog) Render() string {
	var sb strings.Builder
	for i, t := range c.tools {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%s: %s Input: %s. Output: %s.", t.Name, t.Description, t.Input, t.Output)
	}
	return sb.String()
}
