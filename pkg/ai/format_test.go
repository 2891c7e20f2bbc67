package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatWithContextNoBlocks(t *testing.T) {
	assert.Equal(t, "hello", FormatWithContext("hello", nil))
	assert.Equal(t, "hello", FormatWithContext("hello", []ContextBlock{}))
}

func TestFormatWithContextBlocks(t *testing.T) {
	blocks := []ContextBlock{
		{Content: "buy milk", BlockType: "todo"},
		{Content: "call dentist", BlockType: "done"},
		{Content: "meeting notes from Monday", BlockType: "text"},
	}

	got := FormatWithContext("what should I do next?", blocks)
	want := "**Context from my notes:**\n" +
		"☐ buy milk\n" +
		"☑ call dentist\n" +
		"• meeting notes from Monday\n" +
		"\n**My question:**\n" +
		"what should I do next?"
	assert.Equal(t, want, got)
}

func TestFormatWithContextUnknownType(t *testing.T) {
	got := FormatWithContext("q", []ContextBlock{{Content: "x", BlockType: "heading"}})
	assert.Contains(t, got, "• x\n")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 100))

	long := make([]rune, 150)
	for i := range long {
		long[i] = 'a'
	}
	got := Truncate(string(long), 100)
	assert.Len(t, []rune(got), 103)
	assert.Equal(t, "...", got[len(got)-3:])
}

func TestTruncateMultibyte(t *testing.T) {
	got := Truncate("héllo wörld", 5)
	assert.Equal(t, "héllo...", got)
}

func TestShortUUID(t *testing.T) {
	assert.Equal(t, "12345678", ShortUUID("12345678-abcd-ef01-2345-6789abcdef01"))
	assert.Equal(t, "short", ShortUUID("short"))
}

func TestInferProvider(t *testing.T) {
	tests := []struct {
		model   string
		key     string
		display string
		ok      bool
	}{
		{"gpt-4", "openai", "OpenAI", true},
		{"gpt-4o-mini", "openai", "OpenAI", true},
		{"claude-3-5-sonnet-20241022", "anthropic", "Anthropic", true},
		{"llama-3", "", "", false},
		{"", "", "", false},
	}
	for _, test := range tests {
		key, display, ok := InferProvider(test.model)
		assert.Equal(t, test.key, key, test.model)
		assert.Equal(t, test.display, display, test.model)
		assert.Equal(t, test.ok, ok, test.model)
	}
}
