package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRewriteDirectPlateLookupArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"platedash"},
			want: []string{"platedash"},
		},
		{
			name: "direct id first token",
			in:   []string{"platedash", "3"},
			want: []string{"platedash", "plates", "show", "3"},
		},
		{
			name: "direct id after value flag",
			in:   []string{"platedash", "--api", "http://localhost:3333", "3"},
			want: []string{"platedash", "--api", "http://localhost:3333", "plates", "show", "3"},
		},
		{
			name: "direct id after equals flag",
			in:   []string{"platedash", "--format=table", "12"},
			want: []string{"platedash", "--format=table", "plates", "show", "12"},
		},
		{
			name: "direct id after bool flag",
			in:   []string{"platedash", "--pretty", "3"},
			want: []string{"platedash", "--pretty", "plates", "show", "3"},
		},
		{
			name: "direct id after double dash",
			in:   []string{"platedash", "--", "3"},
			want: []string{"platedash", "plates", "show", "--", "3"},
		},
		{
			name: "numeric value of a value flag is not an id",
			in:   []string{"platedash", "--format", "7"},
			want: []string{"platedash", "--format", "7"},
		},
		{
			name: "normal subcommand not rewritten",
			in:   []string{"platedash", "plates", "show", "3"},
			want: []string{"platedash", "plates", "show", "3"},
		},
		{
			name: "non-numeric token not rewritten",
			in:   []string{"platedash", "wat"},
			want: []string{"platedash", "wat"},
		},
		{
			name: "fractional token not rewritten",
			in:   []string{"platedash", "1.5"},
			want: []string{"platedash", "1.5"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteDirectPlateLookupArgs(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("rewrite mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
