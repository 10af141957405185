// Package storage writes downloaded emoji images below an output root.
//
// Each emoji lands in <root>/<category>/<name>.<ext>. The Manager keeps
// track of the paths handed out during a run so that two emojis resolving
// to the same file are only written once, and it writes every file through
// a temporary file followed by a rename so an interrupted run never leaves
// a truncated image behind.
//
// Usage:
//
//	manager, err := storage.NewManager("myEmojis", storage.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	path, ok := manager.Reserve("Blobs", "blobcat", "png")
//	if ok && !manager.IsDownloaded(path) {
//	    _, err = manager.Save(body, path)
//	}
package storage
