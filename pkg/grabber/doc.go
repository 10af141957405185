// Package grabber runs a complete emoji download.
//
// A run fetches the emoji list of an instance, works out its categories,
// lets a Selector choose among them, then hands every matching emoji to
// the download worker pool. Results are counted into a Summary, shown on a
// progress display and recorded in a manifest in the output directory.
//
// Usage:
//
//	summary, err := grabber.Run(ctx, grabber.Options{
//	    Instance: "misskey.io",
//	    Config:   cfg,
//	    Selector: ui.NewPrompter(os.Stdin, os.Stdout),
//	})
//
// Failures of single emojis never stop the run; they are reported in
// Summary.Failures. Only a failed list fetch, an empty selection or an
// unusable output directory make Run return an error.
package grabber
