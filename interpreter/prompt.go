package interpreter

import (
	"context"
	"fmt"
	"strings"
)

// fallback hands the raw message to the generative backend. It performs no
// entity extraction and has no effect on the store; the backend reply is
// returned unmodified.
func (in *Interpreter) fallback(ctx context.Context, message string) string {
	reply, err := in.gen.Generate(ctx, in.buildFallbackPrompt(message))
	if err != nil {
		in.logger.WithError(err).Error("generative backend call failed")
		return msgBackendDown
	}
	return reply
}

func (in *Interpreter) buildFallbackPrompt(message string) string {
	var b strings.Builder
	b.WriteString("You are a helpful assistant for a sprint task board. ")
	b.WriteString("You answer questions about the team's tasks and agile task management.\n\n")
	b.WriteString("The board supports the following operations:\n")
	for _, cmd := range in.commands {
		fmt.Fprintf(&b, "• %s: %s\n", cmd.name, cmd.description)
	}
	b.WriteString("\nIf the user seems to want one of these operations, suggest a phrasing the board understands. ")
	b.WriteString("Otherwise answer directly and concisely.\n\n")
	fmt.Fprintf(&b, "User message: %s", message)
	return b.String()
}
