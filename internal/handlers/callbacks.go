package handlers

import (
	"errors"

	"contentbot/core/telegram/callbacks"
	tghelpers "contentbot/core/telegram/helpers"
	"contentbot/internal/catalog"
	"contentbot/internal/nav"

	tele "gopkg.in/telebot.v4"
)

const msgNotAllowed = "❌ You are not allowed to do that."

// callbackHandler builds the handler registered for one callback key. The
// payload is parsed into an Action exactly once; everything after that
// switches on the kind.
func (h *Handlers) callbackHandler(key string) tele.HandlerFunc {
	return func(c tele.Context) error {
		action, err := nav.Parse(key, callbacks.CallbackPayload(c))
		if err != nil {
			return err
		}
		return h.handleAction(c, action)
	}
}

func (h *Handlers) handleAction(c tele.Context, action nav.Action) error {
	userID := c.Sender().ID

	switch action.Kind {
	case nav.ActionNoop:
		return nil

	case nav.ActionHome:
		h.sessions.Clear(userID)
		return h.sendRootMenu(c, true)

	case nav.ActionBack:
		h.sessions.Clear(userID)
		if action.Root {
			return h.sendRootMenu(c, true)
		}
		return h.sendSectionMenu(c, action.Section)

	case nav.ActionOpenSection:
		h.sessions.Clear(userID)
		return h.sendSectionMenu(c, action.Section)

	case nav.ActionShowItem:
		h.sessions.Clear(userID)
		return h.sendItemPage(c, action.Section, action.Page)

	case nav.ActionAddSection:
		var parent *int64
		if !action.Root {
			parent = &action.Section
		}
		return h.sendReply(c, h.machine.StartAddSection(userID, parent))

	case nav.ActionRename:
		return h.sendReply(c, h.machine.StartRename(userID, adminTarget(action)))

	case nav.ActionDelete:
		if action.Pick {
			return h.sendReply(c, h.machine.StartDelete(userID))
		}
		return h.deleteSection(c, action.Section)

	case nav.ActionAddItem:
		return h.sendReply(c, h.machine.StartAddItem(userID, adminTarget(action)))

	default:
		return nil
	}
}

func adminTarget(action nav.Action) *int64 {
	if action.Pick {
		return nil
	}
	return &action.Section
}

// deleteSection handles the one-tap delete button on a section's detail
// view: the target is already known, so no flow is needed. The parent menu
// is re-rendered afterwards so the stale button disappears.
func (h *Handlers) deleteSection(c tele.Context, sectionID int64) error {
	userID := c.Sender().ID
	if !h.machine.IsOperator(userID) {
		return tghelpers.SendText(c, msgNotAllowed)
	}
	h.sessions.Clear(userID)

	ctx := tghelpers.BuildContext(c)
	section, err := h.store.GetSection(ctx, sectionID)
	if err != nil && !errors.Is(err, catalog.ErrNotFound) {
		return err
	}

	deleted, err := h.store.DeleteSection(ctx, sectionID)
	if err != nil {
		return err
	}

	notice := "✅ Section deleted."
	if !deleted {
		notice = msgSectionGone
	}
	if err := tghelpers.SendText(c, notice); err != nil {
		return err
	}

	if section != nil && section.ParentID != nil {
		return h.sendSectionMenu(c, *section.ParentID)
	}
	return h.sendRootMenu(c, false)
}
