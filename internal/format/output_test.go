package format

import (
	"bytes"
	"strings"
	"testing"
)

type row struct {
	ID    string   `json:"id"`
	Title string   `json:"title"`
	Tags  []string `json:"tagIds,omitempty"`
	Order float64  `json:"order"`
}

func TestWrite_Formats(t *testing.T) {
	t.Parallel()

	payload := map[string]any{"data": []row{
		{ID: "task-a", Title: "Write report", Tags: []string{"tag-1", "tag-2"}, Order: 1},
		{ID: "task-b", Title: "Call bank", Order: 2.5},
	}}

	tests := []struct {
		format string
		want   []string
	}{
		{format: "json", want: []string{`"id":"task-a"`, `"order":2.5`}},
		{format: "yaml", want: []string{"data:", "- id: task-a", "title: Call bank"}},
		{format: "table", want: []string{"ID", "TITLE", "ORDER", "task-a", "tag-1,tag-2", "2.5"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.format, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			if err := Write(&buf, payload, tt.format, false); err != nil {
				t.Fatalf("Write(%s): %v", tt.format, err)
			}
			for _, w := range tt.want {
				if !strings.Contains(buf.String(), w) {
					t.Fatalf("%s output missing %q:\n%s", tt.format, w, buf.String())
				}
			}
		})
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	t.Parallel()

	if err := Write(&bytes.Buffer{}, 1, "edn", false); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestWriteTable_ColumnOrderAndObject(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriteTable(&buf, []row{{ID: "x", Title: "t"}}); err != nil {
		t.Fatalf("WriteTable: %v", err)
	}
	header := strings.Fields(strings.SplitN(buf.String(), "\n", 2)[0])
	if len(header) < 3 || header[0] != "ID" || header[1] != "TITLE" || header[2] != "ORDER" {
		t.Fatalf("expected preferred columns first; got %v", header)
	}

	buf.Reset()
	if err := WriteTable(&buf, map[string]any{"data": map[string]any{"id": "proj-a", "title": "P"}}); err != nil {
		t.Fatalf("WriteTable(object): %v", err)
	}
	if !strings.Contains(buf.String(), "proj-a") || !strings.Contains(buf.String(), "title") {
		t.Fatalf("unexpected object table:\n%s", buf.String())
	}
}
