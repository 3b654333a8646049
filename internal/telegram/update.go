package telegram

import "strings"

// Update is one incoming event from the Bot API. Only message updates are
// consumed; everything else is ignored.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

// Message is an incoming chat message.
type Message struct {
	MessageID int64  `json:"message_id"`
	From      *User  `json:"from"`
	Chat      Chat   `json:"chat"`
	Text      string `json:"text"`
}

// User identifies the sender of a message.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Chat identifies the conversation a message belongs to.
type Chat struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Command returns the bot command carried by the message ("/trade" →
// "trade"), with any @botname suffix stripped, or "" for free text.
func (m *Message) Command() string {
	if m == nil || !strings.HasPrefix(m.Text, "/") {
		return ""
	}
	command := strings.Fields(m.Text)[0][1:]
	if at := strings.IndexByte(command, '@'); at >= 0 {
		command = command[:at]
	}
	return strings.ToLower(command)
}

// SenderUsername returns the username of the message sender, preferring
// the from-user over the chat.
func (m *Message) SenderUsername() string {
	if m == nil {
		return ""
	}
	if m.From != nil && m.From.Username != "" {
		return m.From.Username
	}
	return m.Chat.Username
}
