package handlers

import (
	"errors"
	"fmt"

	"contentbot/core/telegram/format"
	tghelpers "contentbot/core/telegram/helpers"
	"contentbot/core/telegram/keyboard"
	"contentbot/internal/catalog"
	"contentbot/internal/nav"

	tele "gopkg.in/telebot.v4"
)

// sendRootMenu renders the top-level section list. Callbacks edit the
// message in place; commands send a fresh one.
func (h *Handlers) sendRootMenu(c tele.Context, edit bool) error {
	ctx := tghelpers.BuildContext(c)
	children, err := h.store.ListChildren(ctx, nil)
	if err != nil {
		return err
	}
	markup := keyboard.InlineButtonsRows(nav.SectionListView(nil, children)...)
	if edit {
		return tghelpers.EditOrSendMD(c, titleMainMenu, markup)
	}
	return tghelpers.SendMD(c, titleMainMenu, markup)
}

// sendSectionMenu renders the detail view of one section. A vanished
// section degrades to the root menu with a notice.
func (h *Handlers) sendSectionMenu(c tele.Context, sectionID int64) error {
	ctx := tghelpers.BuildContext(c)
	section, err := h.store.GetSection(ctx, sectionID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			if sendErr := tghelpers.SendText(c, msgSectionGone); sendErr != nil {
				return sendErr
			}
			return h.sendRootMenu(c, false)
		}
		return err
	}

	subsections, err := h.store.ListChildren(ctx, &section.ID)
	if err != nil {
		return err
	}
	title := fmt.Sprintf("📂 %s", mdEscape(section.Name))
	markup := keyboard.InlineButtonsRows(nav.SectionDetailView(*section, subsections)...)
	return tghelpers.EditOrSendMD(c, title, markup)
}

// sendItemPage delivers one content item with the pager keyboard. Pages
// outside the valid range are clamped by the store.
func (h *Handlers) sendItemPage(c tele.Context, sectionID int64, page int) error {
	ctx := tghelpers.BuildContext(c)
	item, page, total, err := h.store.GetItemPage(ctx, sectionID, page)
	if err != nil {
		return err
	}
	if item == nil {
		markup := keyboard.InlineButtonsRows(nav.EmptySectionView(sectionID)...)
		return tghelpers.EditOrSendMD(c, msgEmptySection, markup)
	}

	markup := keyboard.InlineButtonsRows(nav.ItemPagerView(sectionID, page, total)...)
	opts := &tele.SendOptions{ReplyMarkup: markup}

	if item.Kind == catalog.KindText {
		return tghelpers.SendText(c, format.DerefString(item.Body, ""), opts)
	}

	media, err := mediaFromItem(item)
	if err != nil {
		return err
	}
	return tghelpers.SendMedia(c, "send."+string(item.Kind), media, opts)
}

// mediaFromItem rebuilds a sendable Telegram object from a stored file id.
func mediaFromItem(item *catalog.Item) (tele.Sendable, error) {
	if item.FileID == nil {
		return nil, fmt.Errorf("item %d: media without file id", item.ID)
	}
	file := tele.File{FileID: *item.FileID}
	caption := format.DerefString(item.Caption, "")

	switch item.Kind {
	case catalog.KindPhoto:
		return &tele.Photo{File: file, Caption: caption}, nil
	case catalog.KindDocument:
		return &tele.Document{File: file, Caption: caption}, nil
	case catalog.KindVideo:
		return &tele.Video{File: file, Caption: caption}, nil
	case catalog.KindAudio:
		return &tele.Audio{File: file, Caption: caption}, nil
	case catalog.KindAnimation:
		return &tele.Animation{File: file, Caption: caption}, nil
	default:
		return nil, fmt.Errorf("item %d: unsupported kind %q", item.ID, item.Kind)
	}
}
