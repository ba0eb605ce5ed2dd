package domain

import "strings"

// Command is a recognized chat command token
type Command string

const (
	CommandStart   Command = "/start"
	CommandHelp    Command = "/help"
	CommandCompare Command = "/compare"
	CommandReport  Command = "/report"
	CommandHealth  Command = "/health"
	CommandWatch   Command = "/watch"
	CommandUnknown Command = "unknown"
)

// Chat identifies the conversation a message came from
type Chat struct {
	ID int64 `json:"id"`
}

// Message is an inbound chat message
type Message struct {
	MessageID int64  `json:"message_id"`
	Chat      Chat   `json:"chat"`
	Text      string `json:"text,omitempty"`
}

// Update is the webhook payload delivered by the chat platform
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message,omitempty"`
}

// Reply is the single outbound message produced for an inbound one
type Reply struct {
	ChatID  int64   `json:"chat_id"`
	Command Command `json:"command"`
	Text    string  `json:"text"`
}

// ParseCommand splits message text on whitespace. The first token,
// lower-cased, is the command and the rest are its arguments.
func ParseCommand(text string) (Command, []string) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return CommandUnknown, nil
	}
	return Command(strings.ToLower(fields[0])), fields[1:]
}
