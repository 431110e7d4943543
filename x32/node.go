package x32

import (
	"strings"

	"github.com/normen/x32-osc/osc"
)

// SplitNode breaks a node reply such as `/ch/01/config "Lead Vox" 1 RD 33`
// into its address and arguments. Double quoted runs are one argument,
// without the quotes. All arguments are returned as osc.String.
func SplitNode(text string) (string, []osc.Argument) {
	var tokens []string
	for {
		text = strings.TrimLeft(text, " \t\r\n")
		if text == "" {
			break
		}
		if text[0] == '"' {
			end := strings.IndexByte(text[1:], '"')
			if end < 0 {
				tokens = append(tokens, text[1:])
				break
			}
			tokens = append(tokens, text[1:end+1])
			text = text[end+2:]
			continue
		}
		end := strings.IndexAny(text, " \t\r\n\"")
		if end < 0 {
			tokens = append(tokens, text)
			break
		}
		tokens = append(tokens, text[:end])
		text = text[end:]
	}
	if len(tokens) == 0 {
		return "", nil
	}
	var args []osc.Argument
	for _, t := range tokens[1:] {
		args = append(args, osc.String(t))
	}
	return tokens[0], args
}
