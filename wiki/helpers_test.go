package wiki

import (
	"net/url"
	"testing"
)

func TestClampLimit(t *testing.T) {
	tests := []struct {
		limit, min, max, want int
	}{
		{5, 1, 500, 5},
		{0, 1, 500, 1},
		{-10, 1, 500, 1},
		{500, 1, 500, 500},
		{501, 1, 500, 500},
	}
	for _, tt := range tests {
		if got := clampLimit(tt.limit, tt.min, tt.max); got != tt.want {
			t.Errorf("clampLimit(%d, %d, %d) = %d, want %d", tt.limit, tt.min, tt.max, got, tt.want)
		}
	}
}

func TestFilterAllowed_PreservesOrder(t *testing.T) {
	got := filterAllowed([]string{"c", "x", "a", "b"}, []string{"a", "b", "c"})
	want := []string{"c", "a", "b"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestJoinInts(t *testing.T) {
	if got := joinInts([]int{0, 4, 14}); got != "0|4|14" {
		t.Errorf("joinInts = %q, want 0|4|14", got)
	}
	if got := joinInts(nil); got != "" {
		t.Errorf("joinInts(nil) = %q, want empty", got)
	}
}

func TestGetBool(t *testing.T) {
	m := map[string]interface{}{
		"modern":  true,
		"off":     false,
		"legacy":  "",
		"zero":    "0",
		"present": map[string]interface{}{},
	}
	tests := []struct {
		key  string
		want bool
	}{
		{"modern", true},
		{"off", false},
		{"legacy", true},
		{"zero", false},
		{"present", true},
		{"absent", false},
	}
	for _, tt := range tests {
		if got := getBool(m, tt.key); got != tt.want {
			t.Errorf("getBool(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestRawDump_Deterministic(t *testing.T) {
	m := map[string]interface{}{"z": 1.0, "a": "x", "m": []interface{}{true}}
	first := rawDump(m)
	if first != `{"a":"x","m":[true],"z":1}` {
		t.Errorf("rawDump = %q", first)
	}
	for i := 0; i < 10; i++ {
		if again := rawDump(m); again != first {
			t.Fatalf("rawDump varies: %q vs %q", first, again)
		}
	}
}

func TestApplyAdditional_LastWriteWins(t *testing.T) {
	params := url.Values{}
	params.Set("summary", "computed")
	applyAdditional(params, map[string]string{"summary": "override", "extra": "1"})
	if got := params.Get("summary"); got != "override" {
		t.Errorf("summary = %q, want override", got)
	}
	if got := params.Get("extra"); got != "1" {
		t.Errorf("extra = %q, want 1", got)
	}
}

func TestRewriteSearchMatches(t *testing.T) {
	got := rewriteSearchMatches(`Norway is a <span class="searchmatch">Nordic</span> country`)
	want := "Norway is a **Nordic** country"
	if got != want {
		t.Errorf("rewriteSearchMatches = %q, want %q", got, want)
	}
}

func TestGroupThousands(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-9876543, "-9,876,543"},
	}
	for _, tt := range tests {
		if got := groupThousands(tt.n); got != tt.want {
			t.Errorf("groupThousands(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestCapitalize(t *testing.T) {
	if got := capitalize("wikitext"); got != "Wikitext" {
		t.Errorf("capitalize = %q", got)
	}
	if got := capitalize(""); got != "" {
		t.Errorf("capitalize(empty) = %q", got)
	}
}

func TestUnderline_RuneAware(t *testing.T) {
	if got := underline("abc"); got != "===" {
		t.Errorf("underline = %q", got)
	}
	if got := underline("søk"); got != "===" {
		t.Errorf("underline with multibyte = %q, want 3 equals", got)
	}
}
