package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRewriteDirectItemLookupArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{name: "no args", in: []string{"thingsdo"}, want: []string{"thingsdo"}},
		{
			name: "task id first",
			in:   []string{"thingsdo", "task-abcd2345"},
			want: []string{"thingsdo", "items", "show", "task-abcd2345"},
		},
		{
			name: "project id first",
			in:   []string{"thingsdo", "proj-abcd2345"},
			want: []string{"thingsdo", "items", "show", "proj-abcd2345"},
		},
		{
			name: "after value flag",
			in:   []string{"thingsdo", "--dir", "./ws", "task-abcd2345"},
			want: []string{"thingsdo", "--dir", "./ws", "items", "show", "task-abcd2345"},
		},
		{
			name: "after equals flag",
			in:   []string{"thingsdo", "--workspace=Home", "task-abcd2345"},
			want: []string{"thingsdo", "--workspace=Home", "items", "show", "task-abcd2345"},
		},
		{
			name: "after bool flag",
			in:   []string{"thingsdo", "--pretty", "task-abcd2345"},
			want: []string{"thingsdo", "--pretty", "items", "show", "task-abcd2345"},
		},
		{
			name: "after double dash",
			in:   []string{"thingsdo", "--", "task-abcd2345"},
			want: []string{"thingsdo", "--", "items", "show", "task-abcd2345"},
		},
		{
			name: "subcommand untouched",
			in:   []string{"thingsdo", "items", "show", "task-abcd2345"},
			want: []string{"thingsdo", "items", "show", "task-abcd2345"},
		},
		{name: "bare prefix untouched", in: []string{"thingsdo", "task-"}, want: []string{"thingsdo", "task-"}},
		{name: "unknown command untouched", in: []string{"thingsdo", "wat"}, want: []string{"thingsdo", "wat"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if diff := cmp.Diff(tt.want, rewriteDirectItemLookupArgs(tt.in)); diff != "" {
				t.Fatalf("rewrite (-want +got):\n%s", diff)
			}
		})
	}
}
