package database

import "testing"

func TestSQLiteDSNCarriesForeignKeysPragma(t *testing.T) {
	got := sqliteDSN("bot.db")
	want := "file:bot.db?_pragma=foreign_keys(1)"
	if got != want {
		t.Fatalf("dsn = %q, want %q", got, want)
	}
}

func TestSQLiteDSNDefaultsPath(t *testing.T) {
	got := sqliteDSN("")
	want := "file:contentbot.db?_pragma=foreign_keys(1)"
	if got != want {
		t.Fatalf("dsn = %q, want %q", got, want)
	}
}
