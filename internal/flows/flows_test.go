package flows

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"contentbot/core/telegram/state"
	"contentbot/internal/catalog"
)

const operatorID int64 = 99

func newMachine(t *testing.T) (*Machine, *catalog.Store) {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, catalog.EnsureSchema(context.Background(), db))

	store := catalog.NewStore(db)
	return NewMachine(store, state.NewMemoryManager(), operatorID), store
}

func text(s string) Input {
	return Input{Kind: catalog.KindText, Text: s}
}

func TestAddSectionFlowAtRoot(t *testing.T) {
	ctx := context.Background()
	m, store := newMachine(t)

	reply := m.StartAddSection(operatorID, nil)
	assert.Equal(t, msgPromptName, reply.Text)
	assert.True(t, m.InProgress(operatorID))

	replies, err := m.HandleMessage(ctx, operatorID, text("Guides"))
	require.NoError(t, err)
	require.Len(t, replies, 2)
	assert.Equal(t, "✅ Section created: Guides", replies[0].Text)
	assert.Equal(t, msgMainMenu, replies[1].Text)
	assert.NotEmpty(t, replies[1].Rows)

	roots, err := store.ListChildren(ctx, nil)
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Equal(t, "Guides", roots[0].Name)
	assert.False(t, m.InProgress(operatorID), "flow must end after the name step")
}

func TestAddSectionFlowUnderParent(t *testing.T) {
	ctx := context.Background()
	m, store := newMachine(t)

	parentID, err := store.CreateSection(ctx, "Docs", nil)
	require.NoError(t, err)

	m.StartAddSection(operatorID, &parentID)
	replies, err := m.HandleMessage(ctx, operatorID, text("Manuals"))
	require.NoError(t, err)
	require.Len(t, replies, 2)
	assert.Equal(t, "📂 Docs", replies[1].Text)

	children, err := store.ListChildren(ctx, &parentID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, "Manuals", children[0].Name)
}

func TestAddSectionRepromptsOnBlankName(t *testing.T) {
	ctx := context.Background()
	m, store := newMachine(t)

	m.StartAddSection(operatorID, nil)
	replies, err := m.HandleMessage(ctx, operatorID, text("   "))
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Equal(t, msgEmptyName, replies[0].Text)
	assert.True(t, m.InProgress(operatorID), "invalid input must keep the flow open")

	roots, err := store.ListChildren(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, roots)
}

func TestRenamePickFlow(t *testing.T) {
	ctx := context.Background()
	m, store := newMachine(t)

	id, err := store.CreateSection(ctx, "Old", nil)
	require.NoError(t, err)

	reply := m.StartRename(operatorID, nil)
	assert.Equal(t, msgPromptRenameID, reply.Text)

	replies, err := m.HandleMessage(ctx, operatorID, text("garbage"))
	require.NoError(t, err)
	assert.Equal(t, msgBadID, replies[0].Text)
	assert.Equal(t, StateRenameID, m.Sessions().GetState(operatorID))

	replies, err = m.HandleMessage(ctx, operatorID, text("424242"))
	require.NoError(t, err)
	assert.Equal(t, msgUnknownSection, replies[0].Text)
	assert.Equal(t, StateRenameID, m.Sessions().GetState(operatorID))

	replies, err = m.HandleMessage(ctx, operatorID, text(strconv.FormatInt(id, 10)))
	require.NoError(t, err)
	assert.Equal(t, msgPromptNewName, replies[0].Text)

	replies, err = m.HandleMessage(ctx, operatorID, text("New"))
	require.NoError(t, err)
	assert.Equal(t, msgRenamed, replies[0].Text)
	assert.False(t, m.InProgress(operatorID))

	section, err := store.GetSection(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "New", section.Name)
}

func TestRenameDirectTargetSkipsIDStep(t *testing.T) {
	ctx := context.Background()
	m, store := newMachine(t)

	id, err := store.CreateSection(ctx, "Old", nil)
	require.NoError(t, err)

	reply := m.StartRename(operatorID, &id)
	assert.Equal(t, msgPromptNewName, reply.Text)

	replies, err := m.HandleMessage(ctx, operatorID, text("Renamed"))
	require.NoError(t, err)
	assert.Equal(t, msgRenamed, replies[0].Text)

	section, err := store.GetSection(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", section.Name)
}

func TestDeleteFlow(t *testing.T) {
	ctx := context.Background()
	m, store := newMachine(t)

	id, err := store.CreateSection(ctx, "Doomed", nil)
	require.NoError(t, err)

	m.StartDelete(operatorID)

	// Garbage input re-prompts without ending the flow.
	replies, err := m.HandleMessage(ctx, operatorID, text("not a number"))
	require.NoError(t, err)
	assert.Equal(t, msgBadID, replies[0].Text)
	assert.True(t, m.InProgress(operatorID))

	replies, err = m.HandleMessage(ctx, operatorID, text(strconv.FormatInt(id, 10)))
	require.NoError(t, err)
	assert.Equal(t, msgDeleted, replies[0].Text)
	assert.False(t, m.InProgress(operatorID))

	_, err = store.GetSection(ctx, id)
	assert.True(t, errors.Is(err, catalog.ErrNotFound))
}

func TestDeleteUnknownIDReportsNoOp(t *testing.T) {
	ctx := context.Background()
	m, _ := newMachine(t)

	m.StartDelete(operatorID)
	replies, err := m.HandleMessage(ctx, operatorID, text("777"))
	require.NoError(t, err)
	assert.Equal(t, msgDeleteMissing, replies[0].Text)
	assert.False(t, m.InProgress(operatorID))
}

func TestAddItemFlowResolvesSectionByName(t *testing.T) {
	ctx := context.Background()
	m, store := newMachine(t)

	id, err := store.CreateSection(ctx, "Media", nil)
	require.NoError(t, err)

	reply := m.StartAddItem(operatorID, nil)
	assert.Equal(t, msgPromptTarget, reply.Text)

	replies, err := m.HandleMessage(ctx, operatorID, text("Media"))
	require.NoError(t, err)
	assert.Equal(t, msgPromptContent, replies[0].Text)

	replies, err = m.HandleMessage(ctx, operatorID, Input{
		Kind:    catalog.KindPhoto,
		FileID:  "file-abc",
		Caption: "a caption",
	})
	require.NoError(t, err)
	assert.Equal(t, msgItemAdded, replies[0].Text)
	assert.False(t, m.InProgress(operatorID))

	items, err := store.ListItems(ctx, id)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, catalog.KindPhoto, items[0].Kind)
	require.NotNil(t, items[0].FileID)
	assert.Equal(t, "file-abc", *items[0].FileID)
	require.NotNil(t, items[0].Caption)
	assert.Equal(t, "a caption", *items[0].Caption)
}

func TestAddItemRejectsEmptyText(t *testing.T) {
	ctx := context.Background()
	m, store := newMachine(t)

	id, err := store.CreateSection(ctx, "Notes", nil)
	require.NoError(t, err)

	m.StartAddItem(operatorID, &id)

	replies, err := m.HandleMessage(ctx, operatorID, text("   "))
	require.NoError(t, err)
	assert.Equal(t, msgBadContent, replies[0].Text)
	assert.True(t, m.InProgress(operatorID))

	items, err := store.ListItems(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, items, "blank text must not create an item")

	replies, err = m.HandleMessage(ctx, operatorID, text("actual content"))
	require.NoError(t, err)
	assert.Equal(t, msgItemAdded, replies[0].Text)
}

func TestAddItemRejectsUnsupportedContent(t *testing.T) {
	ctx := context.Background()
	m, store := newMachine(t)

	id, err := store.CreateSection(ctx, "Notes", nil)
	require.NoError(t, err)

	m.StartAddItem(operatorID, &id)
	replies, err := m.HandleMessage(ctx, operatorID, Input{})
	require.NoError(t, err)
	assert.Equal(t, msgBadContent, replies[0].Text)

	items, err := store.ListItems(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestNonOperatorIsRejected(t *testing.T) {
	ctx := context.Background()
	m, store := newMachine(t)
	const stranger int64 = 5

	reply := m.StartAddSection(stranger, nil)
	assert.Equal(t, msgNotAllowed, reply.Text)
	assert.False(t, m.InProgress(stranger))

	reply = m.StartDelete(stranger)
	assert.Equal(t, msgNotAllowed, reply.Text)

	replies, err := m.HandleMessage(ctx, stranger, text("anything"))
	require.NoError(t, err)
	assert.Nil(t, replies, "idle stranger input is not a flow message")

	roots, err := store.ListChildren(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, roots)
}

func TestStartingNewFlowDiscardsOldOne(t *testing.T) {
	ctx := context.Background()
	m, store := newMachine(t)

	m.StartRename(operatorID, nil)
	m.StartAddSection(operatorID, nil)

	// The pending rename must be gone: this text is a section name now.
	replies, err := m.HandleMessage(ctx, operatorID, text("Fresh"))
	require.NoError(t, err)
	assert.Equal(t, "✅ Section created: Fresh", replies[0].Text)

	roots, err := store.ListChildren(ctx, nil)
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Equal(t, "Fresh", roots[0].Name)
}
