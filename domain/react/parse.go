package react

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/felixgeelhaar/react-agent/domain/agent"
)

var (
	thinkBlockRe  = regexp.MustCompile(`(?is)<think>.*?</think>`)
	finalAnswerRe = regexp.MustCompile(`(?im)^[ \t*_#>]*final[ \t]*answer[ \t*_]*:[*_]*`)
	actionRe      = regexp.MustCompile(`(?im)^[ \t*_#>]*action[ \t*_]*:[ \t]*(.*)$`)
	actionInputRe = regexp.MustCompile(`(?im)^[ \t*_#>]*action[ \t]*input[ \t*_]*:[ \t]*(.*)$`)
	thoughtRe     = regexp.MustCompile(`(?im)^[ \t*_#>]*thought[ \t*_]*:[ \t]*(.*)$`)
	observationRe = regexp.MustCompile(`(?im)^[ \t]*observation[ \t]*:`)
	leadThoughtRe = regexp.MustCompile(`(?i)^thought[ \t]*:[ \t]*`)
)

const (
	toolNameCutset = "`'\"[]()*_ \t"
	inputCutset    = "`'\"* \t"
)

// Parse interprets a model completion as the next action.
//
// A final answer is authoritative only when no action marker follows it; a
// final answer followed by an action is a parse error. An action is a search
// when its tool is in the catalog and its input is a non-empty single line.
// Every failure is an *agent.Error of kind parse_error.
func Parse(catalog *Catalog, completion string) (agent.Action, error) {
	text := StripThinkBlocks(completion)
	if text == "" {
		return agent.Action{}, parseError(ErrEmptyCompletion, "")
	}

	actions := actionRe.FindAllStringSubmatchIndex(text, -1)

	if loc := finalAnswerRe.FindStringIndex(text); loc != nil {
		for _, a := range actions {
			if a[0] > loc[0] {
				return agent.Action{}, parseError(ErrTrailingAction, "")
			}
		}
		answer := strings.TrimSpace(text[loc[1]:])
		if answer == "" {
			return agent.Action{}, parseError(ErrEmptyAnswer, "")
		}
		return agent.Finish(answer).WithThought(lastThought(text[:loc[0]])), nil
	}

	if len(actions) == 0 {
		return agent.Action{}, parseError(ErrNoAction, "")
	}

	first := actions[0]
	name := strings.Trim(text[first[2]:first[3]], toolNameCutset)
	tool, ok := catalog.Lookup(name)
	if !ok {
		return agent.Action{}, parseError(ErrUnknownTool, name)
	}

	// Only the first action counts; anything after an observation marker was
	// invented by the model.
	rest := text[first[1]:]
	if obs := observationRe.FindStringIndex(rest); obs != nil {
		rest = rest[:obs[0]]
	}
	m := actionInputRe.FindStringSubmatch(rest)
	if m == nil {
		return agent.Action{}, parseError(ErrMissingInput, tool.Name)
	}
	input := decodeInput(m[1])
	if input == "" {
		return agent.Action{}, parseError(ErrMissingInput, tool.Name)
	}

	return agent.Search(input).
		WithTool(tool.Name).
		WithThought(lastThought(text[:first[0]])), nil
}

// StripThinkBlocks removes <think>...</think> reasoning emitted by some models.
func StripThinkBlocks(s string) string {
	return strings.TrimSpace(thinkBlockRe.ReplaceAllString(s, ""))
}

// decodeInput normalizes a single-line action input. JSON objects with a
// "query" or "input" field are accepted as well.
func decodeInput(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "{") {
		var obj map[string]any
		if err := json.Unmarshal([]byte(raw), &obj); err == nil {
			for _, key := range []string{"query", "input", "q"} {
				if v, ok := obj[key].(string); ok {
					return strings.TrimSpace(v)
				}
			}
		}
	}
	return strings.TrimSpace(strings.Trim(raw, inputCutset))
}

// lastThought returns the reasoning text preceding a marker. Completions
// usually continue the prompt's trailing "Thought:" cue, so leading text
// without a marker is treated as the thought.
func lastThought(prefix string) string {
	matches := thoughtRe.FindAllStringSubmatch(prefix, -1)
	if len(matches) > 0 {
		return strings.TrimSpace(matches[len(matches)-1][1])
	}
	line := strings.TrimSpace(prefix)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}
	return strings.TrimSpace(leadThoughtRe.ReplaceAllString(line, ""))
}

func parseError(cause error, detail string) error {
	if detail != "" {
		cause = fmt.Errorf("%w: %s", cause, detail)
	}
	return agent.NewError(agent.KindParse, cause)
}
