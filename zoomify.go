// Package zoomify holds the zoom mod's settings model and a layered store
// that persists it.
//
// Settings are addressed by JSON Pointer keys ("/initialZoom"). A Store stacks
// the built-in defaults under the user's settings file, decodes the merged
// view into Settings, and writes edits back as changesets so comments and
// formatting in the file survive.
//
//	store, err := zoomify.Open(ctx, "~/.minecraft/config/zoomify.json")
//	if err != nil {
//		return err
//	}
//	_ = store.Set(zoomify.KeyInitialZoom, 6)
//	err = store.Save(ctx)
package zoomify
