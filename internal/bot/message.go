// Package bot implements the chat-facing half of the system: the Telegram
// gateway, the command dispatcher, and the detection pipeline it delegates
// photo+detect jobs to.
package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Message is the inbound event the dispatcher consumes, decoded from a
// gateway callback.
type Message struct {
	ChatID      int64
	MessageID   int
	Text        string
	Caption     string
	HasCaption  bool
	PhotoFileID string
}

// HasPhoto reports whether the message carries a photo.
func (m Message) HasPhoto() bool {
	return m.PhotoFileID != ""
}

// FromTelegram converts a Telegram message into the dispatcher's event shape,
// picking the largest photo size when several are offered.
func FromTelegram(msg *tgbotapi.Message) Message {
	out := Message{
		MessageID:  msg.MessageID,
		Text:       msg.Text,
		Caption:    msg.Caption,
		HasCaption: msg.Caption != "",
	}
	if msg.Chat != nil {
		out.ChatID = msg.Chat.ID
	}
	if len(msg.Photo) > 0 {
		out.PhotoFileID = pickPhoto(msg.Photo).FileID
	}
	return out
}

func pickPhoto(items []tgbotapi.PhotoSize) tgbotapi.PhotoSize {
	best := items[0]
	for _, item := range items[1:] {
		if item.FileSize > best.FileSize {
			best = item
			continue
		}
		if item.Width*item.Height > best.Width*best.Height {
			best = item
		}
	}
	return best
}
