package cli

import (
	"context"
	"fmt"

	"github.com/mapsketch/mapsketch/internal/geojson"
)

// Save persists the canvas under the given name. Subsequent edits autosave
// to that name. An explicit save supersedes any pending autosave.
func (a *App) Save(ctx context.Context, name string) error {
	if err := a.saveCurrent(ctx, name); err != nil {
		printlnFn("Save failed:", err.Error())
		return err
	}
	a.mu.Lock()
	a.docName = name
	a.mu.Unlock()
	a.saver.NoteSaved()
	printlnFn("Saved", name)
	return nil
}

// Load replaces the canvas contents with the named document. When the server
// is unreachable it falls back to the local cache.
func (a *App) Load(ctx context.Context, name string) error {
	fc, err := a.api.LoadDocument(ctx, name)
	if err != nil {
		cached, cacheErr := a.cache.Get(ctx, name)
		if cacheErr != nil {
			printlnFn("Load failed:", err.Error())
			return err
		}
		printlnFn("Server unavailable, using cached copy")
		if fc, err = geojson.Decode(cached); err != nil {
			return err
		}
	}

	doc, err := geojson.Import(fc)
	if err != nil {
		printlnFn("Load failed:", err.Error())
		return err
	}

	a.mu.Lock()
	a.canvas.Load(doc)
	a.docName = name
	a.mu.Unlock()
	a.saver.NoteSaved()
	printlnFn(fmt.Sprintf("Loaded %s (%d shapes)", name, doc.Len()))
	return nil
}

// List prints the caller's document names, newest first. When the server is
// unreachable the locally cached names are shown instead.
func (a *App) List(ctx context.Context) error {
	names, err := a.api.ListDocuments(ctx)
	if err != nil {
		cached, cacheErr := a.cache.List(ctx)
		if cacheErr != nil {
			printlnFn("List failed:", err.Error())
			return err
		}
		printlnFn("Server unavailable, cached documents:")
		names = cached
	}

	if len(names) == 0 {
		printlnFn("No documents")
		return nil
	}
	for _, n := range names {
		printlnFn(n)
	}
	return nil
}

// Export snapshots the named document to object storage and prints the
// download URL.
func (a *App) Export(ctx context.Context, name string) error {
	url, err := a.api.ExportDocument(ctx, name)
	if err != nil {
		printlnFn("Export failed:", err.Error())
		return err
	}
	printlnFn("Download URL:", url)
	return nil
}

// AdminList prints every document on the server across all owners.
func (a *App) AdminList(ctx context.Context) error {
	infos, err := a.api.AdminListDocuments(ctx)
	if err != nil {
		printlnFn("Listing failed:", err.Error())
		return err
	}
	for _, info := range infos {
		printlnFn(fmt.Sprintf("%-20s %-20s %s", info.Owner, info.Name, info.CreatedAt.Format("2006-01-02 15:04:05")))
	}
	return nil
}

// AdminLoad loads another user's document onto the canvas, read-only in
// spirit: edits would autosave under the admin's own account, so the current
// document name is cleared.
func (a *App) AdminLoad(ctx context.Context, owner, name string) error {
	fc, err := a.api.AdminLoadDocument(ctx, owner, name)
	if err != nil {
		printlnFn("Load failed:", err.Error())
		return err
	}

	doc, err := geojson.Import(fc)
	if err != nil {
		printlnFn("Load failed:", err.Error())
		return err
	}

	a.mu.Lock()
	a.canvas.Load(doc)
	a.docName = ""
	a.mu.Unlock()
	printlnFn(fmt.Sprintf("Loaded %s/%s (%d shapes)", owner, name, doc.Len()))
	return nil
}
