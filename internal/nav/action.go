// Package nav builds the inline navigation keyboards and defines the
// button action grammar shared between keyboard output and callback
// routing. Everything here is pure: callers fetch tree data from the store
// and send messages through the transport layer.
package nav

import (
	"fmt"
	"strconv"
	"strings"
)

// ActionKind enumerates every button action the bot emits. The set is
// closed: callbacks parse into an Action exactly once at the routing
// boundary and handlers switch over the kind exhaustively.
type ActionKind int

const (
	ActionNoop ActionKind = iota
	ActionHome
	ActionBack
	ActionOpenSection
	ActionShowItem
	ActionAddSection
	ActionRename
	ActionDelete
	ActionAddItem
)

// Callback keys, also the wire action names of the button grammar
// {action}:{arg}[:{arg2}] carried in telebot's \f<unique>|<payload> data.
const (
	KeyNoop       = "noop"
	KeyHome       = "home"
	KeyBack       = "back"
	KeySection    = "section"
	KeyShow       = "show"
	KeyAddSection = "admin:add_section"
	KeyRename     = "admin:rename"
	KeyDelete     = "admin:delete"
	KeyAddItem    = "admin:add_item"
)

// RootArg is the reserved payload meaning "no parent".
const RootArg = "root"

// PickArg is the reserved payload for admin actions entered without a
// preselected target section; the flow asks for one instead.
const PickArg = "pick"

// Action is the parsed form of a button press.
//
//   - Section carries the target section id where one applies.
//   - Root marks back/add_section actions aimed at the top level.
//   - Pick marks admin actions without a preselected target.
type Action struct {
	Kind    ActionKind
	Section int64
	Page    int
	Root    bool
	Pick    bool
}

// Keys lists every callback key a handler must be registered for.
func Keys() []string {
	return []string{
		KeyNoop, KeyHome, KeyBack, KeySection, KeyShow,
		KeyAddSection, KeyRename, KeyDelete, KeyAddItem,
	}
}

// Encode renders the action as a (callback key, payload) pair.
func (a Action) Encode() (string, string) {
	switch a.Kind {
	case ActionHome:
		return KeyHome, ""
	case ActionBack:
		if a.Root {
			return KeyBack, RootArg
		}
		return KeyBack, strconv.FormatInt(a.Section, 10)
	case ActionOpenSection:
		return KeySection, strconv.FormatInt(a.Section, 10)
	case ActionShowItem:
		return KeyShow, fmt.Sprintf("%d:%d", a.Section, a.Page)
	case ActionAddSection:
		if a.Root {
			return KeyAddSection, RootArg
		}
		return KeyAddSection, strconv.FormatInt(a.Section, 10)
	case ActionRename:
		return KeyRename, adminArg(a)
	case ActionDelete:
		return KeyDelete, adminArg(a)
	case ActionAddItem:
		return KeyAddItem, adminArg(a)
	default:
		return KeyNoop, ""
	}
}

func adminArg(a Action) string {
	if a.Pick {
		return PickArg
	}
	return strconv.FormatInt(a.Section, 10)
}

// Parse decodes a callback (key, payload) pair into an Action. Unknown
// keys and malformed arguments are errors; the router answers those with
// the generic "unsupported action" notice.
func Parse(key, payload string) (Action, error) {
	payload = strings.TrimSpace(payload)
	switch key {
	case KeyNoop:
		return Action{Kind: ActionNoop}, nil
	case KeyHome:
		return Action{Kind: ActionHome}, nil
	case KeyBack:
		if payload == RootArg {
			return Action{Kind: ActionBack, Root: true}, nil
		}
		id, err := parseID(key, payload)
		if err != nil {
			return Action{}, err
		}
		return Action{Kind: ActionBack, Section: id}, nil
	case KeySection:
		id, err := parseID(key, payload)
		if err != nil {
			return Action{}, err
		}
		return Action{Kind: ActionOpenSection, Section: id}, nil
	case KeyShow:
		parts := strings.SplitN(payload, ":", 2)
		if len(parts) != 2 {
			return Action{}, fmt.Errorf("action %s: want id:page, got %q", key, payload)
		}
		id, err := parseID(key, parts[0])
		if err != nil {
			return Action{}, err
		}
		page, err := strconv.Atoi(parts[1])
		if err != nil {
			return Action{}, fmt.Errorf("action %s: bad page %q", key, parts[1])
		}
		return Action{Kind: ActionShowItem, Section: id, Page: page}, nil
	case KeyAddSection:
		if payload == RootArg {
			return Action{Kind: ActionAddSection, Root: true}, nil
		}
		id, err := parseID(key, payload)
		if err != nil {
			return Action{}, err
		}
		return Action{Kind: ActionAddSection, Section: id}, nil
	case KeyRename, KeyDelete, KeyAddItem:
		kind := map[string]ActionKind{
			KeyRename:  ActionRename,
			KeyDelete:  ActionDelete,
			KeyAddItem: ActionAddItem,
		}[key]
		if payload == PickArg {
			return Action{Kind: kind, Pick: true}, nil
		}
		id, err := parseID(key, payload)
		if err != nil {
			return Action{}, err
		}
		return Action{Kind: kind, Section: id}, nil
	default:
		return Action{}, fmt.Errorf("unknown action %q", key)
	}
}

func parseID(key, arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("action %s: bad section id %q", key, arg)
	}
	return id, nil
}
