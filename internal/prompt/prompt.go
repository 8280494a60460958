// Package prompt builds the instruction sent to the generative model.
package prompt

import (
	"fmt"
	"strings"
	"unicode"
)

// MaxTaskRunes is the longest task text embedded in a prompt.
const MaxTaskRunes = 4000

const template = `You are a helpful project manager. Break down the following task into a simple checklist of 3 to 5 short, actionable sub-tasks. Task: "%s"`

// Build returns the prompt for taskText.
func Build(taskText string) string {
	return fmt.Sprintf(template, NormalizeTask(taskText))
}

// NormalizeTask prepares caller text for embedding.
// - Control characters other than newline and tab are removed
// - Text longer than MaxTaskRunes runes is truncated
func NormalizeTask(taskText string) string {
	var b strings.Builder
	b.Grow(len(taskText))

	n := 0
	for _, r := range taskText {
		if n == MaxTaskRunes {
			break
		}
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		b.WriteRune(r)
		n++
	}
	return b.String()
}
