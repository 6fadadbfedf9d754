package signature

import (
	"strings"
	"testing"
)

func TestValidDataURL(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"data:image/png;base64,iVBORw0KGgo=", true},
		{"data:image/jpeg;base64,/9j/4AAQ", true},
		{"data:image", true},
		{"data:text/plain;base64,aGVsbG8=", false},
		{"http://example.com/sig.png", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ValidDataURL(tt.input); got != tt.valid {
			t.Errorf("ValidDataURL(%q) = %v, want %v", tt.input, got, tt.valid)
		}
	}
}

func TestContentHash_Deterministic(t *testing.T) {
	payload := map[string]interface{}{
		"allergies": "none",
		"history":   "unremarkable",
		"vitals":    map[string]interface{}{"bp": "120/80", "hr": 72},
	}

	h1, err := ContentHash(payload)
	if err != nil {
		t.Fatalf("ContentHash() error: %v", err)
	}
	h2, err := ContentHash(payload)
	if err != nil {
		t.Fatalf("ContentHash() error: %v", err)
	}

	if h1 != h2 {
		t.Errorf("expected deterministic hash, got %s and %s", h1, h2)
	}
	if len(h1) != 64 {
		t.Errorf("expected 64-char hex digest, got %d chars", len(h1))
	}
	if strings.ToLower(h1) != h1 {
		t.Error("expected lowercase hex digest")
	}
}

func TestContentHash_ChangesWithContent(t *testing.T) {
	a, err := ContentHash(map[string]interface{}{"field": "one"})
	if err != nil {
		t.Fatalf("ContentHash() error: %v", err)
	}
	b, err := ContentHash(map[string]interface{}{"field": "two"})
	if err != nil {
		t.Fatalf("ContentHash() error: %v", err)
	}
	if a == b {
		t.Error("expected different hashes for different content")
	}
}

func TestContentHash_EmptyPayload(t *testing.T) {
	h, err := ContentHash(map[string]interface{}{})
	if err != nil {
		t.Fatalf("ContentHash() error: %v", err)
	}
	if len(h) != 64 {
		t.Errorf("expected 64-char digest for empty payload, got %d chars", len(h))
	}
}

func TestHash_BindsContentToImage(t *testing.T) {
	content := "abc123"
	sigA := Hash(content, "data:image/png;base64,AAAA")
	sigB := Hash(content, "data:image/png;base64,BBBB")
	sigC := Hash("other", "data:image/png;base64,AAAA")

	if sigA == sigB {
		t.Error("expected different hashes for different signature images")
	}
	if sigA == sigC {
		t.Error("expected different hashes for different content")
	}
	if sigA != Hash(content, "data:image/png;base64,AAAA") {
		t.Error("expected deterministic signature hash")
	}
	if len(sigA) != 64 {
		t.Errorf("expected 64-char hex digest, got %d chars", len(sigA))
	}
}
