package ai

import "strings"

// FormatWithContext builds the user prompt from the raw message and any
// context blocks. With no blocks the message passes through untouched.
// Blocks render as a checklist: unchecked box for todos, checked box for
// done items, a plain bullet for everything else.
func FormatWithContext(message string, blocks []ContextBlock) string {
	if len(blocks) == 0 {
		return message
	}

	var b strings.Builder
	b.WriteString("**Context from my notes:**\n")
	for _, blk := range blocks {
		switch blk.BlockType {
		case "todo":
			b.WriteString("☐ ")
		case "done":
			b.WriteString("☑ ")
		default:
			b.WriteString("• ")
		}
		b.WriteString(blk.Content)
		b.WriteString("\n")
	}
	b.WriteString("\n**My question:**\n")
	b.WriteString(message)
	return b.String()
}
