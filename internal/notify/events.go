package notify

import (
	"fmt"
	"sort"
	"time"
	"unicode/utf8"
)

// EventType identifies the kind of session event.
type EventType string

// Event types.
const (
	EventLogin            EventType = "login"
	EventLogout           EventType = "logout"
	EventModuleInitFailed EventType = "module_init_failed"
)

// Field keys used in notification payloads.
const (
	FieldUser   = "user"
	FieldRole   = "role"
	FieldModule = "module"
	FieldError  = "error"
)

// message is a webhook payload.
type message struct {
	Channel string  `json:"channel,omitempty"`
	Text    string  `json:"text,omitempty"`
	Blocks  []block `json:"blocks,omitempty"`
}

// block is a Block Kit block.
type block struct {
	Type   string      `json:"type"`
	Text   *textField  `json:"text,omitempty"`
	Fields []textField `json:"fields,omitempty"`
}

type textField struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type eventConfig struct {
	emoji string
	title string
}

var eventConfigs = map[EventType]eventConfig{
	EventLogin:            {emoji: "🔓", title: "User Signed In"},
	EventLogout:           {emoji: "🔒", title: "User Signed Out"},
	EventModuleInitFailed: {emoji: "❌", title: "Module Initialization Failed"},
}

// formatMessage creates the payload for the given event.
func formatMessage(event EventType, fields map[string]string, now time.Time) *message {
	cfg, ok := eventConfigs[event]
	if !ok {
		cfg = eventConfig{emoji: "📢", title: string(event)}
	}

	header := fmt.Sprintf("%s *%s*", cfg.emoji, cfg.title)
	blocks := []block{
		{Type: "section", Text: &textField{Type: "mrkdwn", Text: header}},
	}

	if fieldBlocks := formatFields(event, fields); len(fieldBlocks) > 0 {
		blocks = append(blocks, block{Type: "section", Fields: fieldBlocks})
	}

	blocks = append(blocks, block{
		Type: "context",
		Fields: []textField{
			{Type: "mrkdwn", Text: fmt.Sprintf("_AtlasERP • %s_", now.Format("Jan 2, 15:04 MST"))},
		},
	})

	return &message{
		Text:   fmt.Sprintf("%s %s", cfg.emoji, cfg.title),
		Blocks: blocks,
	}
}

func formatFields(event EventType, fields map[string]string) []textField {
	var result []textField
	add := func(label, v string, maxLen int) {
		if v != "" {
			result = append(result, textField{Type: "mrkdwn", Text: fmt.Sprintf("*%s:*\n%s", label, truncate(v, maxLen))})
		}
	}

	switch event {
	case EventLogin, EventLogout:
		add("User", fields[FieldUser], 50)
		add("Role", fields[FieldRole], 20)
	case EventModuleInitFailed:
		add("Module", fields[FieldModule], 50)
		if v := fields[FieldError]; v != "" {
			result = append(result, textField{Type: "mrkdwn", Text: fmt.Sprintf("*Error:*\n```%s```", truncate(v, 200))})
		}
	default:
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			add(k, fields[k], 100)
		}
	}
	return result
}

// truncate shortens s to maxLen runes, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen-3]) + "..."
}
