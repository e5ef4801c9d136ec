package cache

import (
	"strings"
	"testing"
)

func TestReportKey(t *testing.T) {
	tests := []struct {
		name    string
		ownerID string
		kind    string
		want    string
	}{
		{
			name:    "plain owner",
			ownerID: "alice",
			kind:    "statistics",
			want:    "report::alice::statistics",
		},
		{
			name:    "uuid owner",
			ownerID: "8b7f4a3e-1c2d-4e5f-9a0b-112233445566",
			kind:    "listing",
			want:    "report::8b7f4a3e-1c2d-4e5f-9a0b-112233445566::listing",
		},
		{
			name:    "email owner passes through",
			ownerID: "alice@example.com",
			kind:    "formats",
			want:    "report::alice@example.com::formats",
		},
		{
			name:    "separator runes are escaped",
			ownerID: "alice::bob",
			kind:    "listing",
			want:    "report::alice_3a_3abob::listing",
		},
		{
			name:    "whitespace and control characters are escaped",
			ownerID: "alice smith\n",
			kind:    "listing",
			want:    "report::alice_20smith_0a::listing",
		},
		{
			name:    "literal underscore is escaped",
			ownerID: "a_b",
			kind:    "listing",
			want:    "report::a_5fb::listing",
		},
		{
			name:    "empty owner gets placeholder",
			ownerID: "",
			kind:    "listing",
			want:    "report::_::listing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReportKey(tt.ownerID, tt.kind)
			if got != tt.want {
				t.Errorf("ReportKey(%q, %q) = %q, want %q", tt.ownerID, tt.kind, got, tt.want)
			}
		})
	}
}

func TestOwnerPrefix(t *testing.T) {
	prefix := OwnerPrefix("alice")
	if prefix != "report::alice::" {
		t.Errorf("expected prefix %q, got %q", "report::alice::", prefix)
	}

	// Every report key for the owner must fall under the owner prefix.
	for _, kind := range []string{"listing", "statistics", "formats"} {
		key := ReportKey("alice", kind)
		if !strings.HasPrefix(key, prefix) {
			t.Errorf("key %q is not covered by owner prefix %q", key, prefix)
		}
	}

	// Another owner's keys must not fall under it.
	other := ReportKey("bob", "listing")
	if strings.HasPrefix(other, prefix) {
		t.Errorf("key %q for owner bob must not be covered by alice's prefix %q", other, prefix)
	}
}

func TestOwnerPrefix_NoCrossOwnerCollision(t *testing.T) {
	// A crafted owner must not be able to produce keys under another owner's
	// prefix via separator injection.
	crafted := ReportKey("alice::listing", "statistics")
	if strings.HasPrefix(crafted, OwnerPrefix("alice")) {
		t.Errorf("crafted owner escaped its namespace: %q", crafted)
	}
}

func TestReportKey_DistinctOwnersStayDistinct(t *testing.T) {
	// Owners are opaque; pairs that only differ in escaped runes must never
	// share a key or a prefix.
	pairs := [][2]string{
		{"a:b", "a_b"},
		{"a b", "a_b"},
		{"a:b", "a b"},
		{"a_5fb", "a_b"},
		{"alice::bob", "alice__bob"},
		{"", "_"},
	}

	for _, pair := range pairs {
		if ReportKey(pair[0], "listing") == ReportKey(pair[1], "listing") {
			t.Errorf("owners %q and %q collapsed to the same key %q", pair[0], pair[1], ReportKey(pair[0], "listing"))
		}
		if OwnerPrefix(pair[0]) == OwnerPrefix(pair[1]) {
			t.Errorf("owners %q and %q collapsed to the same prefix %q", pair[0], pair[1], OwnerPrefix(pair[0]))
		}
	}
}
