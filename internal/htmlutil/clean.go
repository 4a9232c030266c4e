package htmlutil

import (
	"strings"

	"github.com/k3a/html2text"
)

// ToText converts a rendered page to plain text for terminal clients. Tags
// are stripped, entities decoded and runs of blank lines collapsed.
func ToText(s string) string {
	text := html2text.HTML2Text(s)

	var b strings.Builder
	blank := false
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			if !blank && b.Len() > 0 {
				b.WriteString("\n")
			}
			blank = true
			continue
		}
		blank = false
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
