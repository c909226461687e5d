// Package flows implements the multi-step admin conversations: add
// section, rename section, delete section, add item. Each flow is a short
// linear sequence of required inputs collected one message at a time, with
// re-prompt-on-invalid-input as the only retry mechanism. The machine never
// touches the transport: it consumes classified Input values and returns
// Reply values for the handler layer to send.
package flows

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"contentbot/core/logger"
	"contentbot/core/telegram/keyboard"
	"contentbot/core/telegram/state"
	"contentbot/internal/catalog"
	"contentbot/internal/nav"
)

// Flow states. One user holds at most one active flow; starting a new one
// discards any prior incomplete flow.
const (
	StateAddSectionName  state.State = "add_section:awaiting_name"
	StateRenameID        state.State = "rename:awaiting_id"
	StateRenameName      state.State = "rename:awaiting_name"
	StateDeleteID        state.State = "delete:awaiting_id"
	StateAddItemSection  state.State = "add_item:awaiting_section"
	StateAddItemContent  state.State = "add_item:awaiting_item"
)

// Session temp keys.
const (
	tempParentID  = "parent_id"
	tempSectionID = "section_id"
)

// Operator-facing texts.
const (
	msgNotAllowed     = "❌ You are not allowed to do that."
	msgPromptName     = "✏️ Send the name of the new section:"
	msgPromptNewName  = "✏️ Send the new name:"
	msgPromptRenameID = "📌 Send the numeric ID of the section to rename (see /list)."
	msgPromptDeleteID = "🗑 Send the ID of the section to delete (its subsections and content go with it):"
	msgPromptTarget   = "📌 Send the target section ID (or its exact name):"
	msgPromptContent  = "📎 Send the content now: text, photo, document, video, audio or animation. Captions are kept for media."
	msgRenamed        = "✅ Section renamed."
	msgDeleted        = "✅ Section deleted."
	msgDeleteMissing  = "⚠️ No section with that ID; nothing deleted."
	msgItemAdded      = "✅ Item added to the section."
	msgBadID          = "❌ Send a valid numeric ID."
	msgEmptyName      = "❌ The name must not be empty. Try again:"
	msgUnknownSection = "⚠️ Section not found. Send an ID or an exact name."
	msgBadContent     = "⚠️ Unsupported or empty content. Send text or one media attachment."
	msgMainMenu       = "📌 Main menu:"
)

// Input is one inbound content unit, already classified by the transport
// layer. Kind is empty for content the bot does not support.
type Input struct {
	Kind    catalog.Kind
	Text    string
	FileID  string
	Caption string
}

// Reply is one outbound message the handler layer should send.
type Reply struct {
	Text string
	Rows [][]keyboard.InlineBtn
}

func say(text string) []Reply { return []Reply{{Text: text}} }

// Machine drives the admin flows over the session manager and the store.
type Machine struct {
	store    *catalog.Store
	sessions state.Manager
	adminID  int64
}

// NewMachine wires the flow machine to its collaborators.
func NewMachine(store *catalog.Store, sessions state.Manager, adminID int64) *Machine {
	return &Machine{store: store, sessions: sessions, adminID: adminID}
}

// IsOperator reports whether the user is the configured operator.
func (m *Machine) IsOperator(userID int64) bool {
	return m.adminID != 0 && userID == m.adminID
}

// Sessions exposes the session manager so navigation handlers can clear
// flow state when the user leaves for a list view.
func (m *Machine) Sessions() state.Manager { return m.sessions }

// InProgress reports whether the user has an active flow.
func (m *Machine) InProgress(userID int64) bool {
	return m.sessions.InProgress(userID)
}

// StartAddSection begins the add-section flow under the given parent
// (nil = top level).
func (m *Machine) StartAddSection(userID int64, parentID *int64) Reply {
	if !m.IsOperator(userID) {
		return Reply{Text: msgNotAllowed}
	}
	m.sessions.Clear(userID)
	if parentID != nil {
		m.sessions.SetTemp(userID, tempParentID, *parentID)
	}
	m.sessions.SetState(userID, StateAddSectionName)
	return Reply{Text: msgPromptName}
}

// StartRename begins the rename flow. With a known target the flow skips
// straight to the name prompt; without one it asks for an id first.
func (m *Machine) StartRename(userID int64, sectionID *int64) Reply {
	if !m.IsOperator(userID) {
		return Reply{Text: msgNotAllowed}
	}
	m.sessions.Clear(userID)
	if sectionID == nil {
		m.sessions.SetState(userID, StateRenameID)
		return Reply{Text: msgPromptRenameID}
	}
	m.sessions.SetTemp(userID, tempSectionID, *sectionID)
	m.sessions.SetState(userID, StateRenameName)
	return Reply{Text: msgPromptNewName}
}

// StartDelete begins the delete-by-id flow.
func (m *Machine) StartDelete(userID int64) Reply {
	if !m.IsOperator(userID) {
		return Reply{Text: msgNotAllowed}
	}
	m.sessions.Clear(userID)
	m.sessions.SetState(userID, StateDeleteID)
	return Reply{Text: msgPromptDeleteID}
}

// StartAddItem begins the add-item flow, either scoped to a known section
// or asking for one first.
func (m *Machine) StartAddItem(userID int64, sectionID *int64) Reply {
	if !m.IsOperator(userID) {
		return Reply{Text: msgNotAllowed}
	}
	m.sessions.Clear(userID)
	if sectionID == nil {
		m.sessions.SetState(userID, StateAddItemSection)
		return Reply{Text: msgPromptTarget}
	}
	m.sessions.SetTemp(userID, tempSectionID, *sectionID)
	m.sessions.SetState(userID, StateAddItemContent)
	return Reply{Text: msgPromptContent}
}

// HandleMessage advances the user's active flow with one inbound message.
// It returns nil replies when the user has no active flow. Unauthorized
// senders get a visible rejection and the flow state is left untouched.
func (m *Machine) HandleMessage(ctx context.Context, userID int64, in Input) ([]Reply, error) {
	current := m.sessions.GetState(userID)
	if current == state.StateIdle {
		return nil, nil
	}
	if !m.IsOperator(userID) {
		return say(msgNotAllowed), nil
	}

	logger.Debug(ctx, "fsm", "flow.step",
		slog.Int64("user_id", userID),
		slog.String("state", string(current)),
		slog.String("kind", string(in.Kind)),
	)

	switch current {
	case StateAddSectionName:
		return m.addSectionName(ctx, userID, in)
	case StateRenameID:
		return m.renameAwaitID(ctx, userID, in)
	case StateRenameName:
		return m.renameAwaitName(ctx, userID, in)
	case StateDeleteID:
		return m.deleteAwaitID(ctx, userID, in)
	case StateAddItemSection:
		return m.addItemAwaitSection(ctx, userID, in)
	case StateAddItemContent:
		return m.addItemAwaitContent(ctx, userID, in)
	default:
		// Stale state from an older build; drop it rather than trap the user.
		m.sessions.Clear(userID)
		return nil, fmt.Errorf("flows: unknown state %q", current)
	}
}

func (m *Machine) addSectionName(ctx context.Context, userID int64, in Input) ([]Reply, error) {
	name := strings.TrimSpace(in.Text)
	if in.Kind != catalog.KindText || name == "" {
		return say(msgEmptyName), nil
	}

	var parentID *int64
	if id, ok := m.sessions.GetTempInt64(userID, tempParentID); ok {
		parentID = &id
	}
	if _, err := m.store.CreateSection(ctx, name, parentID); err != nil {
		if catalog.IsValidation(err) {
			return say(msgEmptyName), nil
		}
		return nil, err
	}
	m.sessions.Clear(userID)

	replies := []Reply{{Text: fmt.Sprintf("✅ Section created: %s", name)}}
	menu, err := m.menuAfterMutation(ctx, parentID)
	if err != nil {
		return replies, err
	}
	return append(replies, menu), nil
}

func (m *Machine) renameAwaitID(ctx context.Context, userID int64, in Input) ([]Reply, error) {
	id, ok := parseID(in)
	if !ok {
		return say(msgBadID), nil
	}
	if _, err := m.store.GetSection(ctx, id); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return say(msgUnknownSection), nil
		}
		return nil, err
	}
	m.sessions.SetTemp(userID, tempSectionID, id)
	m.sessions.SetState(userID, StateRenameName)
	return say(msgPromptNewName), nil
}

func (m *Machine) renameAwaitName(ctx context.Context, userID int64, in Input) ([]Reply, error) {
	name := strings.TrimSpace(in.Text)
	if in.Kind != catalog.KindText || name == "" {
		return say(msgEmptyName), nil
	}
	id, ok := m.sessions.GetTempInt64(userID, tempSectionID)
	if !ok {
		m.sessions.Clear(userID)
		return nil, fmt.Errorf("flows: rename target lost for user %d", userID)
	}
	if err := m.store.RenameSection(ctx, id, name); err != nil {
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			// Deleted while the flow was open; nothing left to rename.
			m.sessions.Clear(userID)
			return say(msgUnknownSection), nil
		case catalog.IsValidation(err):
			return say(msgEmptyName), nil
		default:
			return nil, err
		}
	}
	m.sessions.Clear(userID)
	return say(msgRenamed), nil
}

func (m *Machine) deleteAwaitID(ctx context.Context, userID int64, in Input) ([]Reply, error) {
	id, ok := parseID(in)
	if !ok {
		// Invalid input re-prompts without leaving the flow.
		return say(msgBadID), nil
	}
	deleted, err := m.store.DeleteSection(ctx, id)
	if err != nil {
		return nil, err
	}
	m.sessions.Clear(userID)
	if !deleted {
		return say(msgDeleteMissing), nil
	}
	return say(msgDeleted), nil
}

func (m *Machine) addItemAwaitSection(ctx context.Context, userID int64, in Input) ([]Reply, error) {
	text := strings.TrimSpace(in.Text)
	if in.Kind != catalog.KindText || text == "" {
		return say(msgUnknownSection), nil
	}

	var (
		section *catalog.Section
		err     error
	)
	if id, convErr := strconv.ParseInt(text, 10, 64); convErr == nil {
		section, err = m.store.GetSection(ctx, id)
	} else {
		section, err = m.store.FindSectionByExactName(ctx, text)
	}
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return say(msgUnknownSection), nil
		}
		return nil, err
	}

	m.sessions.SetTemp(userID, tempSectionID, section.ID)
	m.sessions.SetState(userID, StateAddItemContent)
	return say(msgPromptContent), nil
}

func (m *Machine) addItemAwaitContent(ctx context.Context, userID int64, in Input) ([]Reply, error) {
	sectionID, ok := m.sessions.GetTempInt64(userID, tempSectionID)
	if !ok {
		m.sessions.Clear(userID)
		return nil, fmt.Errorf("flows: add-item target lost for user %d", userID)
	}
	if !in.Kind.Valid() {
		return say(msgBadContent), nil
	}

	var body, fileID, caption *string
	if in.Kind == catalog.KindText {
		text := strings.TrimSpace(in.Text)
		if text == "" {
			return say(msgBadContent), nil
		}
		body = &text
	} else {
		if in.FileID == "" {
			return say(msgBadContent), nil
		}
		fileID = &in.FileID
		if in.Caption != "" {
			caption = &in.Caption
		}
	}

	if _, err := m.store.CreateItem(ctx, sectionID, in.Kind, body, fileID, caption); err != nil {
		if catalog.IsValidation(err) {
			return say(msgBadContent), nil
		}
		return nil, err
	}
	m.sessions.Clear(userID)
	return say(msgItemAdded), nil
}

// menuAfterMutation rebuilds the menu the operator was looking at when the
// flow started, so the fresh section shows up immediately.
func (m *Machine) menuAfterMutation(ctx context.Context, parentID *int64) (Reply, error) {
	if parentID == nil {
		children, err := m.store.ListChildren(ctx, nil)
		if err != nil {
			return Reply{}, err
		}
		return Reply{Text: msgMainMenu, Rows: nav.SectionListView(nil, children)}, nil
	}

	parent, err := m.store.GetSection(ctx, *parentID)
	if err != nil {
		return Reply{}, err
	}
	subsections, err := m.store.ListChildren(ctx, &parent.ID)
	if err != nil {
		return Reply{}, err
	}
	return Reply{
		Text: fmt.Sprintf("📂 %s", parent.Name),
		Rows: nav.SectionDetailView(*parent, subsections),
	}, nil
}

func parseID(in Input) (int64, bool) {
	if in.Kind != catalog.KindText {
		return 0, false
	}
	id, err := strconv.ParseInt(strings.TrimSpace(in.Text), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
