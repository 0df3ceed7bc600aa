package docs

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTopics(t *testing.T) {
	want := []string{"ordering", "tags", "trash", "views"}
	if diff := cmp.Diff(want, Topics()); diff != "" {
		t.Fatalf("topics (-want +got):\n%s", diff)
	}
}

func TestGet(t *testing.T) {
	body, ok := Get(" Views ")
	if !ok || !strings.Contains(body, "Focusing") {
		t.Fatalf("views topic missing or wrong: ok=%v", ok)
	}
	if _, ok := Get("../docs"); ok {
		t.Fatalf("path-like topics must be rejected")
	}
	if _, ok := Get("nope"); ok {
		t.Fatalf("unknown topic should not resolve")
	}
}
