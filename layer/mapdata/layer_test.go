package mapdata

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/yacchi/zoomify/document"
)

func TestLayer(t *testing.T) {
	input := map[string]any{"initialZoom": 4}
	l := New("defaults", input)
	input["initialZoom"] = 99

	if l.Name() != "defaults" {
		t.Errorf("Name() = %q", l.Name())
	}
	if !l.CanSave() {
		t.Error("CanSave() = false")
	}

	data, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if data["initialZoom"] != 4 {
		t.Fatalf("Load() = %v; New should copy its input", data)
	}
	data["initialZoom"] = 1
	if l.Data()["initialZoom"] != 4 {
		t.Fatal("Load() should return a copy")
	}

	var cs document.JSONPatchSet
	cs.Replace("/initialZoom", 6)
	cs.Add("/retainZoomSteps", true)
	if err := l.Save(context.Background(), cs); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	want := map[string]any{"initialZoom": 6, "retainZoomSteps": true}
	if diff := cmp.Diff(want, l.Data()); diff != "" {
		t.Errorf("Data() mismatch (-want +got):\n%s", diff)
	}
}

func TestLayer_NilData(t *testing.T) {
	data, err := New("empty", nil).Load(context.Background())
	if err != nil || data == nil || len(data) != 0 {
		t.Fatalf("Load() = %v, %v; want empty map", data, err)
	}
}

func TestLayer_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	l := New("x", nil)
	if _, err := l.Load(ctx); err == nil {
		t.Error("Load() should fail on canceled context")
	}
	if err := l.Save(ctx, nil); err == nil {
		t.Error("Save() should fail on canceled context")
	}
}
