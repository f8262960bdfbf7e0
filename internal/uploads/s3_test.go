package uploads

import (
	"strings"
	"testing"
)

func TestStorageKey(t *testing.T) {
	key := storageKey("My Proof.JPG")

	if !strings.HasPrefix(key, "proofs/") {
		t.Errorf("expected proofs/ prefix, got %q", key)
	}
	if !strings.HasSuffix(key, ".JPG") {
		t.Errorf("expected original extension preserved, got %q", key)
	}
	if strings.Contains(key, "My Proof") {
		t.Errorf("original name must not appear in the key, got %q", key)
	}
	if key == storageKey("My Proof.JPG") {
		t.Error("keys must be unique per call")
	}
}
