// Package zoomtest provides test helpers for zoomify: compliance testers
// for sources and layers, an in-memory settings store that records writes,
// and builders for legacy Ok Zoomer config files.
package zoomtest

import (
	"reflect"
)

// testT is the minimal testing interface used by zoomtest utilities.
type testT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
}

// require fails the test immediately if the condition is false.
func require(t testT, cond bool, format string, args ...any) {
	t.Helper()
	if !cond {
		t.Fatalf(format, args...)
	}
}

// requireNoError fails the test immediately if err is not nil.
func requireNoError(t testT, err error, format string, args ...any) {
	t.Helper()
	if err != nil {
		t.Fatalf(format, args...)
	}
}

// check reports an error if the condition is false, but continues the test.
func check(t testT, cond bool, format string, args ...any) {
	t.Helper()
	if !cond {
		t.Errorf(format, args...)
	}
}

// ValuesEqual compares two values, treating numbers of different Go types
// as equal when their values match. Formats decode numbers differently
// (TOML int64, JSON float64).
func ValuesEqual(got, want any) bool {
	if got == nil || want == nil {
		return got == nil && want == nil
	}
	gotNum, gotIsNum := toFloat64(got)
	wantNum, wantIsNum := toFloat64(want)
	if gotIsNum && wantIsNum {
		return gotNum == wantNum
	}
	return reflect.DeepEqual(got, want)
}

func toFloat64(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch {
	case rv.CanInt():
		return float64(rv.Int()), true
	case rv.CanUint():
		return float64(rv.Uint()), true
	case rv.CanFloat():
		return rv.Float(), true
	}
	return 0, false
}
