package catalog

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// testStore opens an in-memory SQLite database with the catalog schema.
func testStore(t *testing.T) *Store {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// A second connection would see a different in-memory database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, EnsureSchema(context.Background(), db))
	return NewStore(db)
}

func ptr(s string) *string { return &s }

func TestCreateAndListChildren(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	booksID, err := s.CreateSection(ctx, "Books", nil)
	require.NoError(t, err)
	_, err = s.CreateSection(ctx, "Music", nil)
	require.NoError(t, err)
	novelsID, err := s.CreateSection(ctx, "Novels", &booksID)
	require.NoError(t, err)

	roots, err := s.ListChildren(ctx, nil)
	require.NoError(t, err)
	require.Len(t, roots, 2)
	require.Equal(t, "Books", roots[0].Name)
	require.Nil(t, roots[0].ParentID)

	children, err := s.ListChildren(ctx, &booksID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	require.Equal(t, novelsID, children[0].ID)
	require.Equal(t, booksID, *children[0].ParentID)

	got, err := s.GetSection(ctx, novelsID)
	require.NoError(t, err)
	require.Equal(t, children[0], *got)
}

func TestCreateSectionValidation(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	_, err := s.CreateSection(ctx, "   ", nil)
	require.True(t, IsValidation(err))

	missing := int64(999)
	_, err = s.CreateSection(ctx, "Orphan", &missing)
	require.True(t, IsValidation(err))
}

func TestRenameSection(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	id, err := s.CreateSection(ctx, "Books", nil)
	require.NoError(t, err)

	require.NoError(t, s.RenameSection(ctx, id, "Library"))
	// Renaming to the same name twice is idempotent.
	require.NoError(t, s.RenameSection(ctx, id, "Library"))

	got, err := s.GetSection(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Library", got.Name)

	require.ErrorIs(t, s.RenameSection(ctx, 999, "Nope"), ErrNotFound)
	require.True(t, IsValidation(s.RenameSection(ctx, id, "  ")))
}

func TestDeleteSectionCascades(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	rootID, err := s.CreateSection(ctx, "A", nil)
	require.NoError(t, err)
	childID, err := s.CreateSection(ctx, "B", &rootID)
	require.NoError(t, err)
	_, err = s.CreateItem(ctx, childID, KindText, ptr("hello"), nil, nil)
	require.NoError(t, err)

	deleted, err := s.DeleteSection(ctx, rootID)
	require.NoError(t, err)
	require.True(t, deleted)

	_, err = s.GetSection(ctx, childID)
	require.ErrorIs(t, err, ErrNotFound)
	items, err := s.ListItems(ctx, childID)
	require.NoError(t, err)
	require.Empty(t, items)

	// Unknown id is a reported no-op, never an error.
	deleted, err = s.DeleteSection(ctx, rootID)
	require.NoError(t, err)
	require.False(t, deleted)
}

func TestGetItemPageClamps(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	secID, err := s.CreateSection(ctx, "Feed", nil)
	require.NoError(t, err)

	// Empty section: explicit "no item" signal, not an error.
	item, page, total, err := s.GetItemPage(ctx, secID, 0)
	require.NoError(t, err)
	require.Nil(t, item)
	require.Zero(t, total)

	var ids []int64
	for _, body := range []string{"one", "two", "three"} {
		id, err := s.CreateItem(ctx, secID, KindText, ptr(body), nil, nil)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	item, page, total, err = s.GetItemPage(ctx, secID, 1)
	require.NoError(t, err)
	require.Equal(t, 1, page)
	require.Equal(t, 3, total)
	require.Equal(t, ids[1], item.ID)

	// Out-of-range pages saturate to the nearest edge.
	item, page, _, err = s.GetItemPage(ctx, secID, 99)
	require.NoError(t, err)
	require.Equal(t, 2, page)
	require.Equal(t, ids[2], item.ID)

	item, page, _, err = s.GetItemPage(ctx, secID, -7)
	require.NoError(t, err)
	require.Equal(t, 0, page)
	require.Equal(t, ids[0], item.ID)
}

func TestCreateItemValidation(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	secID, err := s.CreateSection(ctx, "Feed", nil)
	require.NoError(t, err)

	_, err = s.CreateItem(ctx, secID, Kind("sticker"), nil, nil, nil)
	require.True(t, IsValidation(err))

	_, err = s.CreateItem(ctx, secID, KindText, ptr("  "), nil, nil)
	require.True(t, IsValidation(err))

	_, err = s.CreateItem(ctx, secID, KindPhoto, nil, ptr(""), nil)
	require.True(t, IsValidation(err))

	_, err = s.CreateItem(ctx, 999, KindText, ptr("body"), nil, nil)
	require.True(t, IsValidation(err))

	// Caption is dropped for text items, kept for media.
	textID, err := s.CreateItem(ctx, secID, KindText, ptr("body"), nil, ptr("ignored"))
	require.NoError(t, err)
	photoID, err := s.CreateItem(ctx, secID, KindPhoto, nil, ptr("file-1"), ptr("kept"))
	require.NoError(t, err)

	items, err := s.ListItems(ctx, secID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, it := range items {
		switch it.ID {
		case textID:
			require.Nil(t, it.Caption)
			require.Equal(t, "body", *it.Body)
		case photoID:
			require.Equal(t, "kept", *it.Caption)
			require.Equal(t, "file-1", *it.FileID)
		}
	}
}

func TestFindSectionByExactName(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	firstID, err := s.CreateSection(ctx, "Books", nil)
	require.NoError(t, err)
	_, err = s.CreateSection(ctx, "Books", &firstID)
	require.NoError(t, err)

	got, err := s.FindSectionByExactName(ctx, "Books")
	require.NoError(t, err)
	require.Equal(t, firstID, got.ID)

	_, err = s.FindSectionByExactName(ctx, "books")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDumpTree(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	lines, err := s.DumpTree(ctx)
	require.NoError(t, err)
	require.Empty(t, lines)

	aID, err := s.CreateSection(ctx, "A", nil)
	require.NoError(t, err)
	bID, err := s.CreateSection(ctx, "B", &aID)
	require.NoError(t, err)
	_, err = s.CreateSection(ctx, "C", &bID)
	require.NoError(t, err)
	_, err = s.CreateSection(ctx, "D", nil)
	require.NoError(t, err)

	lines, err = s.DumpTree(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{
		"- A (ID=1)",
		"  - B (ID=2)",
		"    - C (ID=3)",
		"- D (ID=4)",
	}, lines)
}
