// Package handlers binds the catalog, navigation grammar, and admin flows
// to the Telegram transport. It is the only internal package that touches
// telebot contexts.
package handlers

import (
	"strings"

	tg "contentbot/core/telegram"
	"contentbot/core/telegram/commands"
	"contentbot/core/telegram/format"
	tghelpers "contentbot/core/telegram/helpers"
	"contentbot/core/telegram/keyboard"
	"contentbot/core/telegram/state"
	"contentbot/internal/catalog"
	"contentbot/internal/flows"
	"contentbot/internal/nav"

	tele "gopkg.in/telebot.v4"
)

const (
	titleMainMenu   = "📌 Main menu:"
	titleAdminPanel = "🛠 Admin panel"
	msgEmptyCatalog = "The catalog is empty. Use /admin to add a section."
	msgEmptySection = "📭 This section has no content yet."
	msgSectionGone  = "⚠️ That section no longer exists."

	// Telegram caps messages at 4096 chars; leave headroom for the header.
	listChunkLimit = 3500
)

// Handlers owns every user-facing entry point of the bot.
type Handlers struct {
	store    *catalog.Store
	machine  *flows.Machine
	sessions state.Manager
}

// New wires the handler set to its collaborators.
func New(store *catalog.Store, machine *flows.Machine, sessions state.Manager) *Handlers {
	return &Handlers{store: store, machine: machine, sessions: sessions}
}

// Register adds all commands and callback handlers to the registry.
func (h *Handlers) Register(reg *tg.Registry) error {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     h.cmdStart,
		Description: "Open the main menu",
		Aliases:     []string{"menu", "home"},
	})
	reg.RegisterCommand("/admin", commands.Command{
		Handler:     h.cmdAdmin,
		Description: "Open the admin panel",
		AdminOnly:   true,
	})
	reg.RegisterCommand("/list", commands.Command{
		Handler:     h.cmdList,
		Description: "Dump the section tree with ids",
		AdminOnly:   true,
	})

	for _, key := range nav.Keys() {
		if err := reg.RegisterCallback(key, h.callbackHandler(key)); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handlers) cmdStart(c tele.Context) error {
	h.sessions.Clear(c.Sender().ID)
	return h.sendRootMenu(c, false)
}

func (h *Handlers) cmdAdmin(c tele.Context) error {
	markup := keyboard.InlineButtonsRows(nav.AdminPanelView()...)
	return tghelpers.SendMD(c, titleAdminPanel, markup)
}

func (h *Handlers) cmdList(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	lines, err := h.store.DumpTree(ctx)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		return tghelpers.SendText(c, msgEmptyCatalog)
	}

	for _, chunk := range chunkLines(lines, listChunkLimit) {
		if err := tghelpers.SendText(c, chunk); err != nil {
			return err
		}
	}
	return nil
}

// chunkLines joins lines into messages no longer than limit characters.
func chunkLines(lines []string, limit int) []string {
	var (
		out []string
		b   strings.Builder
	)
	for _, line := range lines {
		if b.Len() > 0 && b.Len()+len(line)+1 > limit {
			out = append(out, b.String())
			b.Reset()
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
	}
	if b.Len() > 0 {
		out = append(out, b.String())
	}
	return out
}

func mdEscape(s string) string {
	escaped, err := format.EscapeMarkdown(s, format.MarkdownV1)
	if err != nil {
		return s
	}
	return escaped
}
