package handlers

import (
	tghelpers "contentbot/core/telegram/helpers"
	"contentbot/core/telegram/keyboard"
	"contentbot/internal/catalog"
	"contentbot/internal/flows"

	tele "gopkg.in/telebot.v4"
)

// InProgress satisfies the router FSM interface.
func (h *Handlers) InProgress(userID int64) bool {
	return h.machine.InProgress(userID)
}

// ManagerHandler feeds one inbound message into the user's active flow and
// sends whatever the flow machine replies. It satisfies the router FSM
// interface.
func (h *Handlers) ManagerHandler(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	replies, err := h.machine.HandleMessage(ctx, c.Sender().ID, classifyInput(c))
	if err != nil {
		return err
	}
	for _, reply := range replies {
		if err := h.sendReply(c, reply); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handlers) sendReply(c tele.Context, reply flows.Reply) error {
	if reply.Text == "" && len(reply.Rows) == 0 {
		return nil
	}
	if len(reply.Rows) > 0 {
		opts := &tele.SendOptions{ReplyMarkup: keyboard.InlineButtonsRows(reply.Rows...)}
		return tghelpers.SendText(c, reply.Text, opts)
	}
	return tghelpers.SendText(c, reply.Text)
}

// classifyInput converts a Telegram message into the flow machine's
// transport-free input form. Unsupported content yields a zero Kind.
func classifyInput(c tele.Context) flows.Input {
	msg := c.Message()
	if msg == nil {
		return flows.Input{}
	}

	switch {
	case msg.Photo != nil:
		return flows.Input{Kind: catalog.KindPhoto, FileID: msg.Photo.FileID, Caption: msg.Caption}
	case msg.Document != nil:
		return flows.Input{Kind: catalog.KindDocument, FileID: msg.Document.FileID, Caption: msg.Caption}
	case msg.Video != nil:
		return flows.Input{Kind: catalog.KindVideo, FileID: msg.Video.FileID, Caption: msg.Caption}
	case msg.Audio != nil:
		return flows.Input{Kind: catalog.KindAudio, FileID: msg.Audio.FileID, Caption: msg.Caption}
	case msg.Animation != nil:
		return flows.Input{Kind: catalog.KindAnimation, FileID: msg.Animation.FileID, Caption: msg.Caption}
	case msg.Text != "":
		return flows.Input{Kind: catalog.KindText, Text: msg.Text}
	default:
		return flows.Input{}
	}
}
