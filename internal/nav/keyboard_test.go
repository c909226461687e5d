package nav

import (
	"testing"

	"github.com/stretchr/testify/require"

	"contentbot/core/telegram/keyboard"
	"contentbot/internal/catalog"
)

func flatten(rows [][]keyboard.InlineBtn) []keyboard.InlineBtn {
	var out []keyboard.InlineBtn
	for _, row := range rows {
		out = append(out, row...)
	}
	return out
}

func hasAction(t *testing.T, rows [][]keyboard.InlineBtn, want Action) bool {
	t.Helper()
	for _, b := range flatten(rows) {
		got, err := Parse(b.Unique, b.Data)
		require.NoError(t, err, "button %q carries unparsable data", b.Text)
		if got == want {
			return true
		}
	}
	return false
}

func countKind(t *testing.T, rows [][]keyboard.InlineBtn, kind ActionKind) int {
	t.Helper()
	n := 0
	for _, b := range flatten(rows) {
		got, err := Parse(b.Unique, b.Data)
		require.NoError(t, err)
		if got.Kind == kind {
			n++
		}
	}
	return n
}

func TestSectionListViewRootOmitsBack(t *testing.T) {
	children := []catalog.Section{{ID: 1, Name: "Books"}, {ID: 2, Name: "Music"}}
	rows := SectionListView(nil, children)

	require.Zero(t, countKind(t, rows, ActionBack))
	require.True(t, hasAction(t, rows, Action{Kind: ActionHome}))
	require.True(t, hasAction(t, rows, Action{Kind: ActionAddSection, Root: true}))
	require.True(t, hasAction(t, rows, Action{Kind: ActionOpenSection, Section: 1}))
	require.True(t, hasAction(t, rows, Action{Kind: ActionOpenSection, Section: 2}))
}

func TestSectionListViewNested(t *testing.T) {
	grandparent := int64(1)
	parent := catalog.Section{ID: 5, Name: "Novels", ParentID: &grandparent}
	rows := SectionListView(&parent, nil)

	require.True(t, hasAction(t, rows, Action{Kind: ActionBack, Section: grandparent}))
	require.True(t, hasAction(t, rows, Action{Kind: ActionHome}))
	require.True(t, hasAction(t, rows, Action{Kind: ActionAddSection, Section: 5}))
}

func TestSectionDetailView(t *testing.T) {
	section := catalog.Section{ID: 5, Name: "Novels"}
	subs := []catalog.Section{{ID: 9, Name: "Classics", ParentID: &section.ID}}
	rows := SectionDetailView(section, subs)

	require.True(t, hasAction(t, rows, Action{Kind: ActionOpenSection, Section: 9}))
	require.True(t, hasAction(t, rows, Action{Kind: ActionShowItem, Section: 5, Page: 0}))
	require.True(t, hasAction(t, rows, Action{Kind: ActionRename, Section: 5}))
	require.True(t, hasAction(t, rows, Action{Kind: ActionDelete, Section: 5}))
	require.True(t, hasAction(t, rows, Action{Kind: ActionAddItem, Section: 5}))
	// Top-level section: back leads home, and both nav buttons are present.
	require.True(t, hasAction(t, rows, Action{Kind: ActionBack, Root: true}))
	require.True(t, hasAction(t, rows, Action{Kind: ActionHome}))
}

func TestItemPagerViewSaturates(t *testing.T) {
	// Middle page: plain prev/next.
	rows := ItemPagerView(5, 1, 3)
	require.True(t, hasAction(t, rows, Action{Kind: ActionShowItem, Section: 5, Page: 0}))
	require.True(t, hasAction(t, rows, Action{Kind: ActionShowItem, Section: 5, Page: 2}))
	require.Equal(t, 1, countKind(t, rows, ActionNoop))

	// Last page: next and last both stay on the final page.
	rows = ItemPagerView(5, 2, 3)
	for _, b := range flatten(rows) {
		a, err := Parse(b.Unique, b.Data)
		require.NoError(t, err)
		if a.Kind == ActionShowItem {
			require.LessOrEqual(t, a.Page, 2)
			require.GreaterOrEqual(t, a.Page, 0)
		}
	}

	// First page: prev stays at zero.
	rows = ItemPagerView(5, 0, 3)
	for _, b := range flatten(rows) {
		a, err := Parse(b.Unique, b.Data)
		require.NoError(t, err)
		if a.Kind == ActionShowItem {
			require.GreaterOrEqual(t, a.Page, 0)
		}
	}

	// Back returns to the section detail view, plus home.
	rows = ItemPagerView(5, 0, 3)
	require.True(t, hasAction(t, rows, Action{Kind: ActionOpenSection, Section: 5}))
	require.True(t, hasAction(t, rows, Action{Kind: ActionHome}))
}

func TestEmptySectionView(t *testing.T) {
	rows := EmptySectionView(5)
	require.True(t, hasAction(t, rows, Action{Kind: ActionOpenSection, Section: 5}))
	require.True(t, hasAction(t, rows, Action{Kind: ActionHome}))
}

func TestAdminPanelViewIsPickMode(t *testing.T) {
	rows := AdminPanelView()
	require.True(t, hasAction(t, rows, Action{Kind: ActionAddSection, Root: true}))
	require.True(t, hasAction(t, rows, Action{Kind: ActionRename, Pick: true}))
	require.True(t, hasAction(t, rows, Action{Kind: ActionDelete, Pick: true}))
	require.True(t, hasAction(t, rows, Action{Kind: ActionAddItem, Pick: true}))
}
