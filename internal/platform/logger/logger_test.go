package logger

import "testing"

func TestSanitizeKVsRedactsSecrets(t *testing.T) {
	got := sanitizeKVs([]interface{}{"postgres_dsn", "postgres://u:p@h/db", "pokemon_id", 25, "dangling"})
	if len(got) != 5 {
		t.Fatalf("len=%d, want 5", len(got))
	}
	if got[1] != "[REDACTED]" {
		t.Fatalf("dsn not redacted: %v", got[1])
	}
	if got[3] != 25 {
		t.Fatalf("pokemon_id changed: %v", got[3])
	}
	if got[4] != "dangling" {
		t.Fatalf("odd trailing key dropped: %v", got)
	}
}
