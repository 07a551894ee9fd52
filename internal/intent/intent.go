// Package intent provides rule-based classification of user requests
// into executable tool intents.
//
// Classification flow:
// 1. Four ordered category tables (file, git, search, bash)
// 2. First matching pattern within a category wins
// 3. Unmatched input falls back to a conversational reply
package intent

import "strings"

// ToolType identifies the tool category an intent targets.
type ToolType int

const (
	// FileOp covers file create/read/edit requests.
	FileOp ToolType = iota

	// GitOp covers repository status/diff/log requests.
	GitOp

	// SearchOp covers grep-style content searches.
	SearchOp

	// BashOp covers shell command execution requests.
	BashOp

	// None is the sentinel when no category matched.
	None
)

// String returns the tool type name.
func (t ToolType) String() string {
	switch t {
	case FileOp:
		return "file_operation"
	case GitOp:
		return "git_operation"
	case SearchOp:
		return "search_operation"
	case BashOp:
		return "bash_operation"
	default:
		return "none"
	}
}

// ToolIntent represents a classified, executable request fragment.
type ToolIntent struct {
	Type       ToolType       `json:"type"`
	Action     string         `json:"action"`
	Target     string         `json:"target"`
	Confidence float64        `json:"confidence"` // 0-1
	Context    map[string]any `json:"context,omitempty"`
}

// Analyze classifies user input into zero-or-more tool intents.
// Categories are evaluated in fixed order (file, git, search, bash) and
// each category contributes at most one intent. When nothing matches, a
// single None intent with confidence 1.0 is returned.
func Analyze(text string) []ToolIntent {
	lower := strings.ToLower(strings.TrimSpace(text))

	var intents []ToolIntent
	if in := detectFile(text, lower); in != nil {
		intents = append(intents, *in)
	}
	if in := detectGit(lower); in != nil {
		intents = append(intents, *in)
	}
	if in := detectSearch(text, lower); in != nil {
		intents = append(intents, *in)
	}
	if in := detectBash(text, lower); in != nil {
		intents = append(intents, *in)
	}

	if len(intents) == 0 {
		intents = append(intents, ToolIntent{
			Type:       None,
			Action:     "none",
			Confidence: 1.0,
		})
	}
	return intents
}

func detectFile(original, lower string) *ToolIntent {
	for _, entry := range filePatterns {
		for _, re := range entry.patterns {
			if re.MatchString(lower) {
				target := extractFilename(original)
				confidence := 0.7
				if target != "" {
					confidence = 0.9
				}
				return &ToolIntent{
					Type:       FileOp,
					Action:     entry.action,
					Target:     target,
					Confidence: confidence,
					Context:    map[string]any{"original_text": original},
				}
			}
		}
	}
	return nil
}

func detectGit(lower string) *ToolIntent {
	for _, entry := range gitPatterns {
		for _, re := range entry.patterns {
			if re.MatchString(lower) {
				return &ToolIntent{
					Type:       GitOp,
					Action:     entry.action,
					Confidence: 0.9,
				}
			}
		}
	}
	return nil
}

func detectSearch(original, lower string) *ToolIntent {
	for _, entry := range searchPatterns {
		for _, re := range entry.patterns {
			if loc := re.FindStringIndex(lower); loc != nil {
				target := extractSearchTerm(original, loc[1])
				confidence := 0.6
				if target != "" {
					confidence = 0.8
				}
				return &ToolIntent{
					Type:       SearchOp,
					Action:     entry.action,
					Target:     target,
					Confidence: confidence,
				}
			}
		}
	}
	return nil
}

func detectBash(original, lower string) *ToolIntent {
	for _, entry := range bashPatterns {
		for _, re := range entry.patterns {
			if loc := re.FindStringIndex(lower); loc != nil {
				target := extractCommand(original, lower[loc[0]:loc[1]], loc[1])
				confidence := 0.7
				if target != "" {
					confidence = 0.8
				}
				return &ToolIntent{
					Type:       BashOp,
					Action:     entry.action,
					Target:     target,
					Confidence: confidence,
				}
			}
		}
	}
	return nil
}
