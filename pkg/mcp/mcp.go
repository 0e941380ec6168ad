// Package mcp exposes the settings state and the code generators over the
// Model Context Protocol.
package mcp

import "unicode/utf8"

const (
	name         = "quellcode"
	instructions = `MCP Server 'quellcode' renders source code with syntax highlighting and reports what the settings panel offers.

When to use these tools:
- Finding out which themes and syntaxes are available, and whether the settings panel is open
- Turning a code snippet into SVG, HTML or terminal (ANSI) output for slides, documents or chat

Workflow:
1. Use 'get_settings_state' to read the available theme and syntax names.
2. Use 'render_code' with a theme and syntax taken EXACTLY from that list. Leave syntax empty to detect it from the code.
`

	// Longest output returned in the text content of a tool result.
	maxTextLen = 4096
)

// truncateString truncates a string to at most maxLen bytes with a marker if
// needed. It never splits a multi-byte rune.
func truncateString(str string, maxLen int) string {
	if len(str) <= maxLen {
		return str
	}

	end := maxLen
	for end > 0 && !utf8.RuneStart(str[end]) {
		end--
	}

	return str[:end] + "\n[OUTPUT TRUNCATED]"
}
