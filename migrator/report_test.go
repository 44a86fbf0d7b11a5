package migrator

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestReport(t *testing.T) {
	var r Report
	if !r.Clean() || r.RestartRequired() {
		t.Fatal("zero Report should be clean without restart")
	}

	r.Warn(Message{Key: "w1", Text: "first warning"})
	r.Error(Message{Key: "e1"})
	r.Warn(Message{Key: "w2", Text: "second warning"})
	r.RequireRestart()
	r.RequireRestart()

	if r.Clean() {
		t.Error("Clean() = true with warnings and errors")
	}
	if !r.RestartRequired() {
		t.Error("RestartRequired() = false")
	}

	wantWarnings := []Message{{Key: "w1", Text: "first warning"}, {Key: "w2", Text: "second warning"}}
	if diff := cmp.Diff(wantWarnings, r.Warnings()); diff != "" {
		t.Errorf("Warnings() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Message{{Key: "e1"}}, r.Errors()); diff != "" {
		t.Errorf("Errors() mismatch (-want +got):\n%s", diff)
	}

	// Returned slices are copies.
	r.Warnings()[0].Key = "changed"
	if r.Warnings()[0].Key != "w1" {
		t.Error("Warnings() exposed internal slice")
	}
}

func TestReport_Notification(t *testing.T) {
	tests := []struct {
		name string
		fill func(r *Report)
		want []string
	}{
		{
			name: "clean",
			fill: func(*Report) {},
			want: []string{"Migrated successfully."},
		},
		{
			name: "counts",
			fill: func(r *Report) {
				r.Warn(Message{Text: "rounded"})
				r.Error(Message{Key: "zoomify.migrate.okz.vignette"})
				r.Error(Message{Text: "no persistent mode"})
			},
			want: []string{
				"1 warning and 2 errors",
				"Error: zoomify.migrate.okz.vignette",
				"Warning: rounded",
			},
		},
		{
			name: "restart",
			fill: func(r *Report) { r.RequireRestart() },
			want: []string{"Migrated successfully.", "Restart the game"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Report
			tt.fill(&r)
			n := r.Notification("Ok Zoomer")
			if n.Title != "Ok Zoomer" {
				t.Errorf("Title = %q", n.Title)
			}
			for _, want := range tt.want {
				if !strings.Contains(n.Body, want) {
					t.Errorf("Body %q missing %q", n.Body, want)
				}
			}
		})
	}

	if NoMigrations().Body == "" {
		t.Error("NoMigrations() has empty body")
	}
}
