package okzoomer

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/yacchi/zoomify"
	"github.com/yacchi/zoomify/migrator"
	"github.com/yacchi/zoomify/zoomtest"
)

func newSettingsStore() *zoomtest.Store {
	initial := make(map[string]any)
	for _, e := range zoomify.Entries() {
		initial[e.Key] = e.Default
	}
	return zoomtest.NewStore(initial).WithNormalizer(func(key string, value any) (any, error) {
		e, err := zoomify.LookupEntry(key)
		if err != nil {
			return nil, err
		}
		return e.Normalize(value)
	})
}

// writeLegacy writes an Ok Zoomer config under a fresh config directory and
// returns the directory.
func writeLegacy(t *testing.T, opts ...zoomtest.LegacyOption) string {
	t.Helper()
	dir := t.TempDir()
	zoomtest.WriteOkZoomerConfig(t, dir, zoomtest.OkZoomerTOML(t, opts...))
	return dir
}

var baseWarnings = []migrator.Message{msgMinZoomDiv, msgStepAmt}

func TestMigrator_IsMigrationAvailable(t *testing.T) {
	dir := t.TempDir()
	m := New(newSettingsStore(), WithConfigDir(dir))
	if m.IsMigrationAvailable() {
		t.Error("IsMigrationAvailable() = true without a legacy config")
	}
	if want := filepath.Join(dir, "ok_zoomer", "config.toml"); m.Path() != want {
		t.Errorf("Path() = %q, want %q", m.Path(), want)
	}

	zoomtest.WriteOkZoomerConfig(t, dir, []byte("not toml ["))
	if !m.IsMigrationAvailable() {
		t.Error("IsMigrationAvailable() = false with a legacy config")
	}

	if err := os.MkdirAll(filepath.Join(dir, "dir.toml"), 0o755); err != nil {
		t.Fatal(err)
	}
	if New(nil, WithPath(filepath.Join(dir, "dir.toml"))).IsMigrationAvailable() {
		t.Error("IsMigrationAvailable() = true for a directory")
	}
	if New(nil).Name() != Name {
		t.Errorf("Name() = %q", New(nil).Name())
	}
}

func TestMigrator_MigrateDefaults(t *testing.T) {
	store := newSettingsStore()
	m := New(store, WithConfigDir(writeLegacy(t)))

	var report migrator.Report
	if err := m.Migrate(context.Background(), &report); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	want := map[string]any{
		zoomify.KeyCinematicCamera:           0,
		zoomify.KeyRelativeSensitivity:       100,
		zoomify.KeyZoomKeyBehaviour:          "HOLD",
		zoomify.KeyKeybindScrolling:          true,
		zoomify.KeySpyglassOverlayVisibility: "NEVER",
		zoomify.KeySpyglassBehaviour:         "COMBINE",
		zoomify.KeySpyglassSoundBehaviour:    "NEVER",
		zoomify.KeyInitialZoom:               4,
		zoomify.KeyScrollZoomAmount:          5,
		zoomify.KeyZoomInTransition:          "EASE_IN_EXP",
		zoomify.KeyZoomOutTransition:         "EASE_IN_EXP",
		zoomify.KeyZoomInTime:                0.5,
		zoomify.KeyZoomOutTime:               0.5,
		zoomify.KeyRetainZoomSteps:           false,
	}
	got := make(map[string]any)
	for _, w := range store.Writes() {
		got[w.Key] = w.Value
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("writes mismatch (-want +got):\n%s", diff)
	}
	if store.Batches() != 1 {
		t.Errorf("Batches() = %d, want one atomic commit", store.Batches())
	}
	if diff := cmp.Diff(baseWarnings, report.Warnings(), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Warnings() mismatch (-want +got):\n%s", diff)
	}
	if len(report.Errors()) != 0 {
		t.Errorf("Errors() = %v", report.Errors())
	}
	if !report.RestartRequired() {
		t.Error("RestartRequired() = false after migrating key binds")
	}
}

func TestMigrator_Rules(t *testing.T) {
	tests := []struct {
		name         string
		opts         []zoomtest.LegacyOption
		want         map[string]any
		untouched    []string
		wantErrors   []migrator.Message
		wantWarnings []migrator.Message
	}{
		{
			name: "cinematic off",
			opts: []zoomtest.LegacyOption{zoomtest.WithLegacy("features", "cinematic_camera", "OFF")},
			want: map[string]any{zoomify.KeyCinematicCamera: 0},
		},
		{
			name: "cinematic vanilla",
			opts: []zoomtest.LegacyOption{zoomtest.WithLegacy("features", "cinematic_camera", "VANILLA")},
			want: map[string]any{zoomify.KeyCinematicCamera: 100},
		},
		{
			name: "cinematic multiplied",
			opts: []zoomtest.LegacyOption{
				zoomtest.WithLegacy("features", "cinematic_camera", "MULTIPLIED"),
				zoomtest.WithLegacy("values", "cinematic_multiplier", 2.0),
			},
			want: map[string]any{zoomify.KeyCinematicCamera: 50},
		},
		{
			name: "cinematic multiplied truncates",
			opts: []zoomtest.LegacyOption{
				zoomtest.WithLegacy("features", "cinematic_camera", "MULTIPLIED"),
				zoomtest.WithLegacy("values", "cinematic_multiplier", 3.0),
			},
			want: map[string]any{zoomify.KeyCinematicCamera: 33},
		},
		{
			name: "cinematic multiplier zero",
			opts: []zoomtest.LegacyOption{
				zoomtest.WithLegacy("features", "cinematic_camera", "MULTIPLIED"),
				zoomtest.WithLegacy("values", "cinematic_multiplier", 0.0),
			},
			untouched:  []string{zoomify.KeyCinematicCamera},
			wantErrors: []migrator.Message{msgCinematicMultiplier},
		},
		{
			name: "sensitivity not reduced",
			opts: []zoomtest.LegacyOption{zoomtest.WithLegacy("features", "reduce_sensitivity", false)},
			want: map[string]any{zoomify.KeyRelativeSensitivity: 0},
		},
		{
			name: "toggle zoom",
			opts: []zoomtest.LegacyOption{zoomtest.WithLegacy("features", "zoom_mode", "TOGGLE")},
			want: map[string]any{zoomify.KeyZoomKeyBehaviour: "TOGGLE"},
		},
		{
			name:       "persistent zoom",
			opts:       []zoomtest.LegacyOption{zoomtest.WithLegacy("features", "zoom_mode", "PERSISTENT")},
			untouched:  []string{zoomify.KeyZoomKeyBehaviour},
			wantErrors: []migrator.Message{msgPersistent},
		},
		{
			name: "no extra key binds",
			opts: []zoomtest.LegacyOption{zoomtest.WithLegacy("features", "extra_key_binds", false)},
			want: map[string]any{zoomify.KeyKeybindScrolling: false},
		},
		{
			name: "spyglass overlay requiring item",
			opts: []zoomtest.LegacyOption{
				zoomtest.WithLegacy("features", "zoom_overlay", "SPYGLASS"),
				zoomtest.WithLegacy("features", "spyglass_dependency", "REQUIRE_ITEM"),
			},
			want: map[string]any{
				zoomify.KeySpyglassOverlayVisibility: "HOLDING",
				zoomify.KeySpyglassBehaviour:         "ONLY_ZOOM_WHILE_HOLDING",
			},
		},
		{
			name: "spyglass overlay without dependency",
			opts: []zoomtest.LegacyOption{zoomtest.WithLegacy("features", "zoom_overlay", "SPYGLASS")},
			want: map[string]any{
				zoomify.KeySpyglassOverlayVisibility: "ALWAYS",
				zoomify.KeySpyglassBehaviour:         "COMBINE",
			},
		},
		{
			name: "spyglass overlay replacing zoom",
			opts: []zoomtest.LegacyOption{
				zoomtest.WithLegacy("features", "zoom_overlay", "SPYGLASS"),
				zoomtest.WithLegacy("features", "spyglass_dependency", "REPLACE_ZOOM"),
			},
			want: map[string]any{
				zoomify.KeySpyglassOverlayVisibility: "ALWAYS",
				zoomify.KeySpyglassBehaviour:         "OVERRIDE",
			},
		},
		{
			name: "spyglass dependency both",
			opts: []zoomtest.LegacyOption{
				zoomtest.WithLegacy("features", "zoom_overlay", "SPYGLASS"),
				zoomtest.WithLegacy("features", "spyglass_dependency", "BOTH"),
			},
			want: map[string]any{
				zoomify.KeySpyglassOverlayVisibility: "HOLDING",
				zoomify.KeySpyglassBehaviour:         "ONLY_ZOOM_WHILE_CARRYING",
			},
		},
		{
			name:       "vignette overlay",
			opts:       []zoomtest.LegacyOption{zoomtest.WithLegacy("features", "zoom_overlay", "VIGNETTE")},
			want:       map[string]any{zoomify.KeySpyglassBehaviour: "COMBINE"},
			untouched:  []string{zoomify.KeySpyglassOverlayVisibility},
			wantErrors: []migrator.Message{msgVignette},
		},
		{
			name: "spyglass sounds",
			opts: []zoomtest.LegacyOption{zoomtest.WithLegacy("tweaks", "use_spyglass_sounds", true)},
			want: map[string]any{zoomify.KeySpyglassSoundBehaviour: "ALWAYS"},
		},
		{
			name: "fractional divisor rounds",
			opts: []zoomtest.LegacyOption{zoomtest.WithLegacy("values", "zoom_divisor", 4.6)},
			want: map[string]any{zoomify.KeyInitialZoom: 5},
		},
		{
			name: "scroll amount from migrated initial zoom",
			opts: []zoomtest.LegacyOption{
				zoomtest.WithLegacy("values", "zoom_divisor", 4.0),
				zoomtest.WithLegacy("values", "maximum_zoom_divisor", 20.0),
			},
			want: map[string]any{
				zoomify.KeyInitialZoom:      4,
				zoomify.KeyScrollZoomAmount: 2,
			},
		},
		{
			name:         "infinite divisor",
			opts:         []zoomtest.LegacyOption{zoomtest.WithLegacy("values", "zoom_divisor", math.Inf(1))},
			want:         map[string]any{zoomify.KeyScrollZoomAmount: 5},
			untouched:    []string{zoomify.KeyInitialZoom},
			wantErrors:   []migrator.Message{msgZoomDivisorNotFinite},
			wantWarnings: []migrator.Message{msgStepAmt},
		},
		{
			name:         "NaN divisor",
			opts:         []zoomtest.LegacyOption{zoomtest.WithLegacy("values", "zoom_divisor", math.NaN())},
			want:         map[string]any{zoomify.KeyScrollZoomAmount: 5},
			untouched:    []string{zoomify.KeyInitialZoom},
			wantErrors:   []migrator.Message{msgZoomDivisorNotFinite},
			wantWarnings: []migrator.Message{msgStepAmt},
		},
		{
			name:         "infinite maximum divisor",
			opts:         []zoomtest.LegacyOption{zoomtest.WithLegacy("values", "maximum_zoom_divisor", math.Inf(1))},
			want:         map[string]any{zoomify.KeyInitialZoom: 4},
			untouched:    []string{zoomify.KeyScrollZoomAmount},
			wantErrors:   []migrator.Message{msgMaxZoomDivisorNotFinite},
			wantWarnings: []migrator.Message{msgMinZoomDiv},
		},
		{
			name:         "negative infinite maximum divisor",
			opts:         []zoomtest.LegacyOption{zoomtest.WithLegacy("values", "maximum_zoom_divisor", math.Inf(-1))},
			untouched:    []string{zoomify.KeyScrollZoomAmount},
			wantErrors:   []migrator.Message{msgMaxZoomDivisorNotFinite},
			wantWarnings: []migrator.Message{msgMinZoomDiv},
		},
		{
			name: "negative half scroll span rounds up",
			opts: []zoomtest.LegacyOption{
				zoomtest.WithLegacy("values", "zoom_divisor", 4.0),
				zoomtest.WithLegacy("values", "maximum_zoom_divisor", -1.0),
			},
			want: map[string]any{zoomify.KeyScrollZoomAmount: 0},
		},
		{
			name: "divisor below one",
			opts: []zoomtest.LegacyOption{zoomtest.WithLegacy("values", "zoom_divisor", 0.4)},
			want: map[string]any{
				zoomify.KeyInitialZoom: 0,
				zoomify.KeyZoomInTime:  0.0,
				zoomify.KeyZoomOutTime: 0.0,
			},
		},
		{
			name: "smooth transition",
			opts: []zoomtest.LegacyOption{
				zoomtest.WithLegacy("values", "zoom_divisor", 4.0),
				zoomtest.WithLegacy("values", "smooth_multiplier", 0.5),
			},
			want: map[string]any{
				zoomify.KeyZoomInTransition:  "EASE_IN_EXP",
				zoomify.KeyZoomOutTransition: "EASE_IN_EXP",
				zoomify.KeyZoomInTime:        1.0,
				zoomify.KeyZoomOutTime:       1.0,
			},
		},
		{
			name: "smooth transition never settles",
			opts: []zoomtest.LegacyOption{zoomtest.WithLegacy("values", "smooth_multiplier", 0.0)},
			want: map[string]any{
				zoomify.KeyZoomInTransition: "EASE_IN_EXP",
				zoomify.KeyZoomInTime:       maxTransitionSeconds,
				zoomify.KeyZoomOutTime:      maxTransitionSeconds,
			},
			wantWarnings: []migrator.Message{msgMinZoomDiv, msgStepAmt, msgSmoothApproximate},
		},
		{
			name: "linear transition",
			opts: []zoomtest.LegacyOption{zoomtest.WithLegacy("features", "zoom_transition", "LINEAR")},
			want: map[string]any{
				zoomify.KeyZoomInTransition:  "LINEAR",
				zoomify.KeyZoomOutTransition: "LINEAR",
				zoomify.KeyZoomInTime:        0.0,
				zoomify.KeyZoomOutTime:       0.0,
			},
			wantErrors: []migrator.Message{msgLinearNotSupported},
		},
		{
			name: "no transition",
			opts: []zoomtest.LegacyOption{zoomtest.WithLegacy("features", "zoom_transition", "OFF")},
			want: map[string]any{
				zoomify.KeyZoomInTransition:  "INSTANT",
				zoomify.KeyZoomOutTransition: "INSTANT",
				zoomify.KeyZoomInTime:        0.0,
				zoomify.KeyZoomOutTime:       0.0,
			},
		},
		{
			name: "remember zoom divisor",
			opts: []zoomtest.LegacyOption{zoomtest.WithLegacy("tweaks", "forget_zoom_divisor", false)},
			want: map[string]any{zoomify.KeyRetainZoomSteps: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newSettingsStore()
			m := New(store, WithConfigDir(writeLegacy(t, tt.opts...)))

			var report migrator.Report
			if err := m.Migrate(context.Background(), &report); err != nil {
				t.Fatalf("Migrate() error = %v", err)
			}

			written := make(map[string]any)
			for _, w := range store.Writes() {
				written[w.Key] = w.Value
			}
			for key, want := range tt.want {
				got, ok := written[key]
				if !ok {
					t.Errorf("%s not written", key)
					continue
				}
				if diff := cmp.Diff(want, got); diff != "" {
					t.Errorf("%s mismatch (-want +got):\n%s", key, diff)
				}
			}
			for _, key := range tt.untouched {
				if v, ok := written[key]; ok {
					t.Errorf("%s written with %v, want untouched", key, v)
				}
			}

			wantWarnings := tt.wantWarnings
			if wantWarnings == nil {
				wantWarnings = baseWarnings
			}
			if diff := cmp.Diff(wantWarnings, report.Warnings(), cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Warnings() mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantErrors, report.Errors(), cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Errors() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMigrator_Idempotent(t *testing.T) {
	store := newSettingsStore()
	m := New(store, WithConfigDir(writeLegacy(t,
		zoomtest.WithLegacy("features", "zoom_mode", "PERSISTENT"),
		zoomtest.WithLegacy("features", "zoom_overlay", "SPYGLASS"),
	)))

	var first, second migrator.Report
	if err := m.Migrate(context.Background(), &first); err != nil {
		t.Fatalf("first Migrate() error = %v", err)
	}
	afterFirst := store.Values()

	if err := m.Migrate(context.Background(), &second); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}
	if diff := cmp.Diff(afterFirst, store.Values()); diff != "" {
		t.Errorf("values changed on rerun (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(first.Warnings(), second.Warnings()); diff != "" {
		t.Errorf("warnings changed on rerun:\n%s", diff)
	}
	if diff := cmp.Diff(first.Errors(), second.Errors()); diff != "" {
		t.Errorf("errors changed on rerun:\n%s", diff)
	}
}

func TestMigrator_DecodeFailureWritesNothing(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
	}{
		{
			name: "missing field",
			setup: func(t *testing.T) string {
				return writeLegacy(t, zoomtest.WithoutLegacy("values", "zoom_divisor"))
			},
		},
		{
			name: "unknown enum value",
			setup: func(t *testing.T) string {
				return writeLegacy(t, zoomtest.WithLegacy("features", "zoom_transition", "BOUNCY"))
			},
		},
		{
			name: "malformed toml",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				zoomtest.WriteOkZoomerConfig(t, dir, []byte("[features\nzoom_mode = "))
				return dir
			},
		},
		{
			name: "missing file",
			setup: func(t *testing.T) string {
				return t.TempDir()
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newSettingsStore()
			unbound := false
			m := New(store,
				WithConfigDir(tt.setup(t)),
				WithUnbindConflicting(func() { unbound = true }),
			)

			var report migrator.Report
			err := m.Migrate(context.Background(), &report)
			if !errors.Is(err, ErrDecode) {
				t.Fatalf("Migrate() error = %v, want ErrDecode", err)
			}
			if n := len(store.Writes()); n != 0 {
				t.Errorf("store has %d writes after a decode failure", n)
			}
			if diff := cmp.Diff([]migrator.Message{msgDecode}, report.Errors()); diff != "" {
				t.Errorf("Errors() mismatch (-want +got):\n%s", diff)
			}
			if len(report.Warnings()) != 0 || report.RestartRequired() {
				t.Error("report has entries beyond the decode error")
			}
			if unbound {
				t.Error("unbind ran after a decode failure")
			}
		})
	}
}

func TestMigrator_CommitFailure(t *testing.T) {
	store := newSettingsStore()
	store.FailOn(zoomify.KeyInitialZoom, errors.New("disk full"))
	m := New(store, WithConfigDir(writeLegacy(t)))

	var report migrator.Report
	if err := m.Migrate(context.Background(), &report); err == nil {
		t.Fatal("Migrate() should fail when the store rejects a write")
	}
	if n := len(store.Writes()); n != 0 {
		t.Errorf("store has %d writes after a failed commit", n)
	}
}

func TestMigrator_Unbind(t *testing.T) {
	dir := writeLegacy(t, zoomtest.WithLegacy("tweaks", "unbind_conflicting_key", true))
	calls := 0
	m := New(newSettingsStore(), WithConfigDir(dir), WithUnbindConflicting(func() { calls++ }))

	var report migrator.Report
	if _, err := m.Plan(context.Background(), &report); err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if calls != 0 {
		t.Errorf("Plan() ran unbind %d times", calls)
	}

	if err := m.Migrate(context.Background(), &report); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if calls != 1 {
		t.Errorf("Migrate() ran unbind %d times, want 1", calls)
	}

	calls = 0
	off := New(newSettingsStore(), WithConfigDir(writeLegacy(t)), WithUnbindConflicting(func() { calls++ }))
	if err := off.Migrate(context.Background(), &migrator.Report{}); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if calls != 0 {
		t.Errorf("Migrate() ran unbind %d times with the tweak off", calls)
	}
}

func TestMigrator_Plan(t *testing.T) {
	store := newSettingsStore()
	m := New(store, WithConfigDir(writeLegacy(t, zoomtest.WithLegacy("values", "maximum_zoom_divisor", 20.0))))

	var report migrator.Report
	writes, err := m.Plan(context.Background(), &report)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if n := len(store.Writes()); n != 0 {
		t.Errorf("Plan() wrote %d settings", n)
	}
	if len(writes) == 0 || writes[0].Key != zoomify.KeyCinematicCamera {
		t.Fatalf("Plan() = %v, want writes in rule order", writes)
	}
	found := false
	for _, w := range writes {
		if w.Key == zoomify.KeyScrollZoomAmount {
			found = true
			if w.Value != 2 {
				t.Errorf("planned scrollZoomAmount = %v, want 2", w.Value)
			}
		}
	}
	if !found {
		t.Error("Plan() did not include scrollZoomAmount")
	}
}

func TestPipeline_ReadsFollowWrites(t *testing.T) {
	written := make(map[string]string)
	for _, s := range pipeline {
		for _, key := range s.reads {
			if _, ok := written[key]; !ok {
				t.Errorf("step %q reads %s before any step writes it", s.name, key)
			}
		}
		for _, key := range s.writes {
			if prev, ok := written[key]; ok {
				t.Errorf("steps %q and %q both write %s", prev, s.name, key)
			}
			written[key] = s.name
			if _, err := zoomify.LookupEntry(key); err != nil {
				t.Errorf("step %q writes unknown key: %v", s.name, err)
			}
		}
	}
}

func TestMigrator_WithStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "zoomify.json")
	store, err := zoomify.Open(ctx, path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	m := New(store, WithConfigDir(writeLegacy(t,
		zoomtest.WithLegacy("features", "zoom_mode", "TOGGLE"),
		zoomtest.WithLegacy("values", "zoom_divisor", 8.0),
		zoomtest.WithLegacy("values", "maximum_zoom_divisor", 28.0),
	)))
	var report migrator.Report
	if err := m.Migrate(ctx, &report); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if err := store.Save(ctx); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	reopened, err := zoomify.Open(ctx, path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	got := reopened.Get()
	if got.InitialZoom != 8 || got.ScrollZoomAmount != 2 {
		t.Errorf("InitialZoom, ScrollZoomAmount = %d, %d, want 8, 2", got.InitialZoom, got.ScrollZoomAmount)
	}
	if got.ZoomKeyBehaviour != zoomify.ZoomKeyToggle {
		t.Errorf("ZoomKeyBehaviour = %s, want TOGGLE", got.ZoomKeyBehaviour)
	}
	if got.ZoomInTransition != zoomify.TransitionEaseInExp {
		t.Errorf("ZoomInTransition = %s, want EASE_IN_EXP", got.ZoomInTransition)
	}
	if got.RetainZoomSteps {
		t.Error("RetainZoomSteps = true, want false")
	}
}
