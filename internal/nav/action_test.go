package nav

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestActionEncodeParseRoundTrip(t *testing.T) {
	actions := []Action{
		{Kind: ActionNoop},
		{Kind: ActionHome},
		{Kind: ActionBack, Root: true},
		{Kind: ActionBack, Section: 7},
		{Kind: ActionOpenSection, Section: 3},
		{Kind: ActionShowItem, Section: 3, Page: 0},
		{Kind: ActionShowItem, Section: 3, Page: 12},
		{Kind: ActionAddSection, Root: true},
		{Kind: ActionAddSection, Section: 5},
		{Kind: ActionRename, Pick: true},
		{Kind: ActionRename, Section: 5},
		{Kind: ActionDelete, Pick: true},
		{Kind: ActionDelete, Section: 5},
		{Kind: ActionAddItem, Pick: true},
		{Kind: ActionAddItem, Section: 5},
	}
	for _, want := range actions {
		key, payload := want.Encode()
		got, err := Parse(key, payload)
		require.NoError(t, err, "key=%s payload=%s", key, payload)
		require.Equal(t, want, got, "key=%s payload=%s", key, payload)
	}
}

func TestActionWireFormat(t *testing.T) {
	key, payload := Action{Kind: ActionShowItem, Section: 42, Page: 3}.Encode()
	require.Equal(t, KeyShow, key)
	require.Equal(t, "42:3", payload)

	key, payload = Action{Kind: ActionAddSection, Root: true}.Encode()
	require.Equal(t, "admin:add_section", key)
	require.Equal(t, RootArg, payload)
}

func TestParseRejectsMalformedPayloads(t *testing.T) {
	cases := []struct{ key, payload string }{
		{"banana", ""},
		{KeySection, ""},
		{KeySection, "abc"},
		{KeyShow, "5"},
		{KeyShow, "5:x"},
		{KeyBack, "maybe"},
		{KeyDelete, ""},
	}
	for _, tc := range cases {
		_, err := Parse(tc.key, tc.payload)
		require.Error(t, err, "key=%s payload=%s", tc.key, tc.payload)
	}
}

func TestKeysCoverEveryEncodedAction(t *testing.T) {
	keys := make(map[string]struct{})
	for _, k := range Keys() {
		keys[k] = struct{}{}
	}
	for _, a := range []Action{
		{Kind: ActionNoop}, {Kind: ActionHome}, {Kind: ActionBack, Root: true},
		{Kind: ActionOpenSection, Section: 1}, {Kind: ActionShowItem, Section: 1},
		{Kind: ActionAddSection, Root: true}, {Kind: ActionRename, Pick: true},
		{Kind: ActionDelete, Pick: true}, {Kind: ActionAddItem, Pick: true},
	} {
		key, _ := a.Encode()
		_, ok := keys[key]
		require.True(t, ok, "key %s missing from Keys()", key)
	}
}
