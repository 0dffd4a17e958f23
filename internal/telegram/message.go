package telegram

// KeyboardKind selects how a keyboard is attached to a message.
type KeyboardKind int

// Keyboard kinds.
const (
	// ReplyKeyboard replaces the user's on-screen keyboard. Pressing a button
	// sends its text as an ordinary message.
	ReplyKeyboard KeyboardKind = iota + 1
	// InlineKeyboard attaches buttons under the message. Pressing a button
	// sends its Data back as a callback.
	InlineKeyboard
)

// ChatTyping is the chat action shown while a slow reply is prepared.
const ChatTyping = "typing"

// Button is one keyboard button. Data is only used by inline keyboards.
type Button struct {
	Text string
	Data string
}

// Keyboard is a grid of buttons.
type Keyboard struct {
	Kind KeyboardKind
	Rows [][]Button
}

// NewReplyKeyboard builds a reply keyboard with one row per argument.
func NewReplyKeyboard(rows ...[]string) *Keyboard {
	kb := &Keyboard{Kind: ReplyKeyboard}
	for _, r := range rows {
		row := make([]Button, 0, len(r))
		for _, text := range r {
			row = append(row, Button{Text: text})
		}
		kb.Rows = append(kb.Rows, row)
	}
	return kb
}

// NewInlineColumn builds an inline keyboard with one button per row.
func NewInlineColumn(buttons ...Button) *Keyboard {
	kb := &Keyboard{Kind: InlineKeyboard}
	for _, b := range buttons {
		kb.Rows = append(kb.Rows, []Button{b})
	}
	return kb
}

// Message is an outbound bot action. Exactly one of these shapes is used:
//   - Action set: a chat action (e.g. typing) is sent, Text is ignored.
//   - EditMessageID set: the existing message is edited in place.
//   - otherwise a new message is sent.
type Message struct {
	ChatID        int64
	Text          string
	Keyboard      *Keyboard
	EditMessageID int
	Action        string
}

// Inbound is one update from the Bot API reduced to what the bot consumes.
// Callback presses carry CallbackID and CallbackData; text messages carry
// Text.
type Inbound struct {
	UpdateID     int
	ChatID       int64
	UserID       int64
	MessageID    int
	Text         string
	CallbackID   string
	CallbackData string
}

// IsCallback reports whether the update is an inline button press.
func (in Inbound) IsCallback() bool {
	return in.CallbackID != ""
}
