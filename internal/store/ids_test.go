package store

import (
	"regexp"
	"testing"

	"thingsdo-cli/internal/model"
)

func TestNewItemID_PrefixAndShape(t *testing.T) {
	t.Parallel()

	re := regexp.MustCompile(`^(task|proj|tag)-[a-z2-7]{8}$`)
	for _, kind := range []model.Kind{model.KindTask, model.KindProject} {
		id, err := newItemID(kind)
		if err != nil {
			t.Fatalf("newItemID: %v", err)
		}
		if !re.MatchString(id) {
			t.Fatalf("unexpected id shape %q", id)
		}
		got, ok := model.KindOfID(id)
		if !ok || got != kind {
			t.Fatalf("KindOfID(%q)=%q,%v; want %q", id, got, ok, kind)
		}
	}
	id, err := newTagID()
	if err != nil || !re.MatchString(id) {
		t.Fatalf("newTagID=%q err=%v", id, err)
	}
}
