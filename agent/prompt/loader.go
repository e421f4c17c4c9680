package prompt

import (
	_ "embed"
	"strings"
)

//go:embed template/support_system.txt
var supportSystemRaw string

// Set holds loaded prompt content.
type Set struct {
	SupportSystem string
}

// LoadSet returns the embedded prompts with surrounding whitespace
// trimmed. Safe to call concurrently.
func LoadSet() Set {
	return Set{
		SupportSystem: strings.TrimSpace(supportSystemRaw),
	}
}
