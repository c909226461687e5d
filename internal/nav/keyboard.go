package nav

import (
	"fmt"

	"contentbot/core/telegram/keyboard"
	"contentbot/internal/catalog"
)

// Button labels. The UI lives entirely in inline keyboards, so these are
// the bot's visible vocabulary.
const (
	labelHome       = "🏠 Home"
	labelBack       = "⬅️ Back"
	labelAddSection = "➕ Add section"
	labelBrowse     = "▶️ Browse content"
	labelRename     = "✏️ Rename"
	labelDelete     = "🗑 Delete"
	labelAddItem    = "➕ Add item"
	labelFirst      = "⏮"
	labelPrev       = "◀️"
	labelNext       = "▶️"
	labelLast       = "⏭"
)

const sectionsPerRow = 2

func btn(text string, a Action) keyboard.InlineBtn {
	key, payload := a.Encode()
	return keyboard.InlineBtn{Text: text, Unique: key, Data: payload}
}

func sectionButtons(sections []catalog.Section) [][]keyboard.InlineBtn {
	buttons := make([]keyboard.InlineBtn, 0, len(sections))
	for _, s := range sections {
		buttons = append(buttons, btn("📂 "+s.Name, Action{Kind: ActionOpenSection, Section: s.ID}))
	}
	return chunk(buttons, sectionsPerRow)
}

func chunk(buttons []keyboard.InlineBtn, n int) [][]keyboard.InlineBtn {
	var rows [][]keyboard.InlineBtn
	for i := 0; i < len(buttons); i += n {
		end := i + n
		if end > len(buttons) {
			end = len(buttons)
		}
		rows = append(rows, buttons[i:end])
	}
	return rows
}

// SectionListView renders the root menu (parent == nil) or a section's
// subsection list: child buttons, an add-section shortcut scoped to the
// current parent, then the nav row. At root the back button is omitted;
// everywhere else back targets the grandparent (or home).
func SectionListView(parent *catalog.Section, children []catalog.Section) [][]keyboard.InlineBtn {
	rows := sectionButtons(children)

	add := Action{Kind: ActionAddSection, Root: true}
	if parent != nil {
		add = Action{Kind: ActionAddSection, Section: parent.ID}
	}
	rows = append(rows, []keyboard.InlineBtn{btn(labelAddSection, add)})

	if parent == nil {
		rows = append(rows, []keyboard.InlineBtn{btn(labelHome, Action{Kind: ActionHome})})
		return rows
	}

	back := Action{Kind: ActionBack, Root: true}
	if parent.ParentID != nil {
		back = Action{Kind: ActionBack, Section: *parent.ParentID}
	}
	rows = append(rows, []keyboard.InlineBtn{
		btn(labelBack, back),
		btn(labelHome, Action{Kind: ActionHome}),
	})
	return rows
}

// SectionDetailView renders one section: its subsections, the content
// entry point, the admin tools scoped to this section, and the nav row.
func SectionDetailView(section catalog.Section, subsections []catalog.Section) [][]keyboard.InlineBtn {
	rows := sectionButtons(subsections)

	rows = append(rows, []keyboard.InlineBtn{
		btn(labelBrowse, Action{Kind: ActionShowItem, Section: section.ID, Page: 0}),
	})
	rows = append(rows, []keyboard.InlineBtn{
		btn(labelRename, Action{Kind: ActionRename, Section: section.ID}),
		btn(labelDelete, Action{Kind: ActionDelete, Section: section.ID}),
	})
	rows = append(rows, []keyboard.InlineBtn{
		btn(labelAddItem, Action{Kind: ActionAddItem, Section: section.ID}),
	})

	back := Action{Kind: ActionBack, Root: true}
	if section.ParentID != nil {
		back = Action{Kind: ActionBack, Section: *section.ParentID}
	}
	rows = append(rows, []keyboard.InlineBtn{
		btn(labelBack, back),
		btn(labelHome, Action{Kind: ActionHome}),
	})
	return rows
}

// ItemPagerView renders the one-item-at-a-time pager. Prev and next
// saturate, so double-tapping at an edge is a no-op; the page indicator is
// inert. The caller must short-circuit total == 0 before building this
// view.
func ItemPagerView(sectionID int64, page, total int) [][]keyboard.InlineBtn {
	prev := page - 1
	if prev < 0 {
		prev = 0
	}
	next := page + 1
	if next > total-1 {
		next = total - 1
	}

	rows := [][]keyboard.InlineBtn{{
		btn(labelFirst, Action{Kind: ActionShowItem, Section: sectionID, Page: 0}),
		btn(labelPrev, Action{Kind: ActionShowItem, Section: sectionID, Page: prev}),
		btn(fmt.Sprintf("%d/%d", page+1, total), Action{Kind: ActionNoop}),
		btn(labelNext, Action{Kind: ActionShowItem, Section: sectionID, Page: next}),
		btn(labelLast, Action{Kind: ActionShowItem, Section: sectionID, Page: total - 1}),
	}}

	rows = append(rows, []keyboard.InlineBtn{
		btn(labelBack, Action{Kind: ActionOpenSection, Section: sectionID}),
		btn(labelHome, Action{Kind: ActionHome}),
	})
	return rows
}

// EmptySectionView renders the nav row shown instead of a pager when a
// section has no content.
func EmptySectionView(sectionID int64) [][]keyboard.InlineBtn {
	return [][]keyboard.InlineBtn{
		{
			btn(labelBack, Action{Kind: ActionOpenSection, Section: sectionID}),
			btn(labelHome, Action{Kind: ActionHome}),
		},
	}
}

// AdminPanelView renders the /admin control panel. Every action enters in
// pick mode: the flow asks for the target section.
func AdminPanelView() [][]keyboard.InlineBtn {
	return [][]keyboard.InlineBtn{
		{
			btn(labelAddSection, Action{Kind: ActionAddSection, Root: true}),
			btn(labelRename, Action{Kind: ActionRename, Pick: true}),
		},
		{
			btn(labelDelete, Action{Kind: ActionDelete, Pick: true}),
			btn(labelAddItem, Action{Kind: ActionAddItem, Pick: true}),
		},
	}
}
