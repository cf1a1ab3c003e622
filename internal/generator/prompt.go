package generator

import "fmt"

// Prompt builds the single user message for a concept. An empty label is
// not special-cased and leaves a double space in the sentence.
func Prompt(promptLabel, sourceText string) string {
	return fmt.Sprintf("Define and explain this %s concept: %s", promptLabel, sourceText)
}

func buildMessages(promptLabel, sourceText string) []chatMessage {
	return []chatMessage{
		{Role: "user", Content: Prompt(promptLabel, sourceText)},
	}
}
