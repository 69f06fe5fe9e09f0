package react

import (
	"strings"

	"github.com/felixgeelhaar/react-agent/domain/agent"
	"github.com/felixgeelhaar/react-agent/domain/model"
)

// ObservationStop stops generation before the model invents an observation.
const ObservationStop = "\nObservation:"

const formatInstructions = `Use the following format:

Question: the input question you must answer
Thought: you should always think about what to do
Action: the action to take, should be one of [{{tools}}]
Action Input: the input to the action, on a single line
Observation: the result of the action
... (this Thought/Action/Action Input/Observation can repeat a few times)
Thought: I now know the final answer
Final Answer: the final answer to the original input question

Never write an Observation yourself. Stop after Action Input and wait for it.`

// BuildPrompt renders the prompt in its fixed section order: tool catalog,
// question, then the transcript so far.
func BuildPrompt(catalog *Catalog, question string, steps []agent.Step) model.Prompt {
	var system strings.Builder
	system.WriteString("Answer the following question as best you can. You have access to the following tools:\n\n")
	system.WriteString(catalog.Render())
	system.WriteString("\n\n")
	system.WriteString(strings.ReplaceAll(formatInstructions, "{{tools}}", strings.Join(catalog.Names(), ", ")))

	var user strings.Builder
	user.WriteString("Begin!\n\nQuestion: ")
	user.WriteString(question)
	user.WriteString("\n")
	user.WriteString(RenderTranscript(steps))
	user.WriteString("Thought:")

	return model.Prompt{
		System: system.String(),
		User:   user.String(),
		Stop:   []string{ObservationStop},
	}
}

// RenderTranscript renders steps as Thought/Action/Action Input/Observation blocks.
func RenderTranscript(steps []agent.Step) string {
	var sb strings.Builder
	for _, s := range steps {
		if s.Thought != "" {
			sb.WriteString("Thought: ")
			sb.WriteString(s.Thought)
			sb.WriteString("\n")
		}
		tool := s.Tool
		if tool == "" {
			tool = string(s.Action)
		}
		sb.WriteString("Action: ")
		sb.WriteString(tool)
		sb.WriteString("\nAction Input: ")
		sb.WriteString(s.ActionInput)
		sb.WriteString("\n")
		if s.Observed {
			sb.WriteString("Observation: ")
			sb.WriteString(s.Observation)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
