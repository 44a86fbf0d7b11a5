package zoomtest

import (
	"context"
	"testing"

	"github.com/yacchi/zoomify/document"
	"github.com/yacchi/zoomify/jsonptr"
	"github.com/yacchi/zoomify/layer"
)

// LayerFactory creates a Layer initialized with the given test data.
// The factory is called for each test case to ensure test isolation.
type LayerFactory func(data map[string]any) layer.Layer

// LayerTester verifies Layer implementations against settings-shaped data.
type LayerTester struct {
	t       *testing.T
	factory LayerFactory
}

// NewLayerTester creates a LayerTester for the given LayerFactory.
func NewLayerTester(t *testing.T, factory LayerFactory) *LayerTester {
	return &LayerTester{t: t, factory: factory}
}

// TestAll runs all compliance tests.
func (lt *LayerTester) TestAll() {
	lt.t.Run("Load", lt.testLoad)
	lt.t.Run("LoadEmpty", lt.testLoadEmpty)
	lt.t.Run("Save", lt.testSave)
	lt.t.Run("SaveEmptyChangeset", lt.testSaveEmptyChangeset)
	lt.t.Run("SaveEmptyInput", lt.testSaveEmptyInput)
}

func sampleSettings() map[string]any {
	return map[string]any{
		"initialZoom":      4,
		"zoomInTime":       1.5,
		"zoomInTransition": "EASE_OUT_EXP",
		"retainZoomSteps":  true,
		"cinematicCamera":  0,
	}
}

func (lt *LayerTester) testLoad(t *testing.T) {
	want := sampleSettings()
	l := lt.factory(want)

	got, err := l.Load(context.Background())
	requireNoError(t, err, "Load() error = %v", err)
	for k, v := range want {
		check(t, ValuesEqual(got[k], v), "Load()[%q] = %#v, want %#v", k, got[k], v)
	}
}

func (lt *LayerTester) testLoadEmpty(t *testing.T) {
	l := lt.factory(map[string]any{})

	got, err := l.Load(context.Background())
	requireNoError(t, err, "Load() error = %v", err)
	check(t, len(got) == 0, "Load() of empty data = %v, want empty", got)
}

func (lt *LayerTester) testSave(t *testing.T) {
	l := lt.factory(sampleSettings())
	if !l.CanSave() {
		t.Skip("layer is read-only")
	}

	var cs document.JSONPatchSet
	cs.Replace("/initialZoom", 6)
	cs.Add("/scrollZoomAmount", 2)
	cs.Remove("/retainZoomSteps")
	requireNoError(t, l.Save(context.Background(), cs), "Save() failed")

	got, err := l.Load(context.Background())
	requireNoError(t, err, "Load() after Save() error = %v", err)

	v, _ := jsonptr.Get(got, "/initialZoom")
	check(t, ValuesEqual(v, 6), "initialZoom = %#v, want 6", v)
	v, _ = jsonptr.Get(got, "/scrollZoomAmount")
	check(t, ValuesEqual(v, 2), "scrollZoomAmount = %#v, want 2", v)
	_, ok := jsonptr.Get(got, "/retainZoomSteps")
	check(t, !ok, "retainZoomSteps should be removed")
	v, _ = jsonptr.Get(got, "/zoomInTransition")
	check(t, ValuesEqual(v, "EASE_OUT_EXP"), "untouched zoomInTransition = %#v", v)
}

func (lt *LayerTester) testSaveEmptyChangeset(t *testing.T) {
	l := lt.factory(sampleSettings())
	if !l.CanSave() {
		t.Skip("layer is read-only")
	}
	requireNoError(t, l.Save(context.Background(), nil), "Save(nil) failed")

	got, err := l.Load(context.Background())
	requireNoError(t, err, "Load() error = %v", err)
	check(t, ValuesEqual(got["initialZoom"], 4), "initialZoom changed by empty save: %#v", got["initialZoom"])
}

func (lt *LayerTester) testSaveEmptyInput(t *testing.T) {
	l := lt.factory(map[string]any{})
	if !l.CanSave() {
		t.Skip("layer is read-only")
	}

	var cs document.JSONPatchSet
	cs.Add("/initialZoom", 3)
	requireNoError(t, l.Save(context.Background(), cs), "Save() failed")

	got, err := l.Load(context.Background())
	requireNoError(t, err, "Load() error = %v", err)
	check(t, ValuesEqual(got["initialZoom"], 3), "initialZoom = %#v, want 3", got["initialZoom"])
}

// DocumentLayerFactory builds layers over a MemSource for doc. Test data is
// written into the source by applying it as a changeset to empty input.
func DocumentLayerFactory(t *testing.T, doc document.Document) LayerFactory {
	return func(data map[string]any) layer.Layer {
		var cs document.JSONPatchSet
		for k, v := range data {
			cs.Add(jsonptr.Build(k), v)
		}
		raw, err := doc.Apply(nil, cs)
		if err != nil {
			t.Fatalf("%s Apply() while seeding test data: %v", doc.Format(), err)
		}
		return layer.New("test", NewMemSource(raw), doc)
	}
}

// NewDocumentLayerTester runs the layer compliance tests through doc.
//
//	zoomtest.NewDocumentLayerTester(t, toml.New()).TestAll()
func NewDocumentLayerTester(t *testing.T, doc document.Document) *LayerTester {
	return NewLayerTester(t, DocumentLayerFactory(t, doc))
}
