package cache

import "testing"

func TestKey(t *testing.T) {
	t.Parallel()

	a := Key("DuckDuckGo", "  Election X   winner ")
	b := Key("duckduckgo", "election x winner")
	if a != b {
		t.Errorf("Key() = %q and %q, want equal", a, b)
	}
	if Key("brave", "q") == Key("duckduckgo", "q") {
		t.Error("Key() ignores provider")
	}
}
