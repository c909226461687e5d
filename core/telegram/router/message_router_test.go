package router

import (
	"testing"

	tg "contentbot/core/telegram"
	"contentbot/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

// textContext fakes the part of tele.Context the text router touches.
// Anything outside that surface panics through the embedded nil interface.
type textContext struct {
	tele.Context
	sender *tele.User
	text   string
	data   map[string]interface{}
}

func newTextContext(userID int64, text string) *textContext {
	return &textContext{
		sender: &tele.User{ID: userID},
		text:   text,
		data:   map[string]interface{}{},
	}
}

func (c *textContext) Update() tele.Update {
	return tele.Update{ID: 1, Message: &tele.Message{Text: c.text}}
}

func (c *textContext) Sender() *tele.User { return c.sender }

func (c *textContext) Chat() *tele.Chat { return &tele.Chat{ID: c.sender.ID} }

func (c *textContext) Text() string { return c.text }

func (c *textContext) Set(key string, val interface{}) { c.data[key] = val }

func (c *textContext) Get(key string) interface{} { return c.data[key] }

func testRegistry(calls map[string]int) *tg.Registry {
	reg := tg.NewRegistry()
	reg.RegisterCommand("/start", commands.Command{
		Handler: func(c tele.Context) error {
			calls["start"]++
			return nil
		},
		Aliases: []string{"menu"},
	})
	reg.RegisterCommand("/list", commands.Command{
		Handler: func(c tele.Context) error {
			calls["list"]++
			return nil
		},
		AdminOnly: true,
	})
	return reg
}

func onTextHandler(t *testing.T, routes []tg.Route) tele.HandlerFunc {
	t.Helper()
	for _, r := range routes {
		if r.Endpoint == tele.OnText {
			return r.Handler
		}
	}
	t.Fatal("no OnText route")
	return nil
}

func TestTextRouterGatesAdminOnlyCommands(t *testing.T) {
	const adminID = 99

	calls := map[string]int{}
	rejected := 0
	routes := TextRoutes(nil, testRegistry(calls), TextOptions{
		AdminID: adminID,
		OnAdminReject: func(c tele.Context) error {
			rejected++
			return nil
		},
	})
	handler := onTextHandler(t, routes)

	// Plain "list" from a stranger resolves the admin-only command and must
	// be rejected, not executed.
	if err := handler(newTextContext(7, "list")); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if calls["list"] != 0 {
		t.Fatalf("admin command ran for non-admin, calls = %d", calls["list"])
	}
	if rejected != 1 {
		t.Fatalf("rejected = %d, want 1", rejected)
	}

	// The operator goes through.
	if err := handler(newTextContext(adminID, "list")); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if calls["list"] != 1 {
		t.Fatalf("calls[list] = %d, want 1", calls["list"])
	}
	if rejected != 1 {
		t.Fatalf("rejected = %d after admin call, want 1", rejected)
	}
}

func TestTextRouterAliasLookupStaysOpenForPublicCommands(t *testing.T) {
	calls := map[string]int{}
	rejected := 0
	routes := TextRoutes(nil, testRegistry(calls), TextOptions{
		AdminID: 99,
		OnAdminReject: func(c tele.Context) error {
			rejected++
			return nil
		},
	})
	handler := onTextHandler(t, routes)

	if err := handler(newTextContext(7, "menu")); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if calls["start"] != 1 {
		t.Fatalf("calls[start] = %d, want 1", calls["start"])
	}
	if rejected != 0 {
		t.Fatalf("rejected = %d, want 0", rejected)
	}
}
