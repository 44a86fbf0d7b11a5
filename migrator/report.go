package migrator

import (
	"fmt"
	"strings"
)

// Message is a user-facing line: a translation key for the game's language
// files and English text for everything else.
type Message struct {
	Key  string
	Text string
}

func (m Message) String() string {
	if m.Text == "" {
		return m.Key
	}
	return m.Text
}

// Report collects the outcome of one migration attempt. Warnings mark
// approximated values, errors mark settings with no zoomify equivalent.
// Neither stops the migration.
//
// A Report is not safe for concurrent use; create one per attempt.
type Report struct {
	warnings        []Message
	errors          []Message
	restartRequired bool
}

// Warn records a precision-loss warning.
func (r *Report) Warn(m Message) {
	r.warnings = append(r.warnings, m)
}

// Error records an unsupported-feature error.
func (r *Report) Error(m Message) {
	r.errors = append(r.errors, m)
}

// RequireRestart marks that a migrated setting only applies after the game
// restarts. Once set it stays set.
func (r *Report) RequireRestart() {
	r.restartRequired = true
}

// Warnings returns the recorded warnings in order.
func (r *Report) Warnings() []Message {
	return append([]Message(nil), r.warnings...)
}

// Errors returns the recorded errors in order.
func (r *Report) Errors() []Message {
	return append([]Message(nil), r.errors...)
}

// RestartRequired reports whether RequireRestart was called.
func (r *Report) RestartRequired() bool {
	return r.restartRequired
}

// Clean reports whether the migration produced no warnings or errors.
func (r *Report) Clean() bool {
	return len(r.warnings) == 0 && len(r.errors) == 0
}

// Notification is the toast shown to the player after a migration.
type Notification struct {
	Title string
	Body  string
}

// NoMigrations is shown when no foreign config was found.
func NoMigrations() Notification {
	return Notification{
		Title: "Zoomify",
		Body:  "No migrations are available. Nothing was changed.",
	}
}

// Notification summarizes the report under title.
func (r *Report) Notification(title string) Notification {
	var b strings.Builder
	switch {
	case r.Clean():
		b.WriteString("Migrated successfully.")
	default:
		fmt.Fprintf(&b, "Migrated with %d warning%s and %d error%s.",
			len(r.warnings), plural(len(r.warnings)), len(r.errors), plural(len(r.errors)))
	}
	for _, m := range r.errors {
		b.WriteString("\nError: ")
		b.WriteString(m.String())
	}
	for _, m := range r.warnings {
		b.WriteString("\nWarning: ")
		b.WriteString(m.String())
	}
	if r.restartRequired {
		b.WriteString("\nRestart the game to apply every change.")
	}
	return Notification{Title: title, Body: b.String()}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
