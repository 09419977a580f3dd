// Package behavior is the page behavior controller.
//
// A Controller attaches the landing page's cosmetic behaviors to a
// dom.Document: dark-mode toggle, mobile menu, smooth anchor scrolling,
// fade-in reveal, toasts, form field affordances, navbar shadow, stat
// counters, parallax drift and the load fade. Each behavior is
// independent and registers only when the elements it needs exist; a
// missing optional element never causes a panic.
//
// # Usage
//
//	ctrl := behavior.New(doc, clk, store,
//	    behavior.WithOptions(opts),
//	    behavior.WithLogger(logger),
//	)
//	ctrl.Init(ctx)
//	ctrl.ShowToast("Saved", toast.KindSuccess)
//
// Element handles are resolved once by Resolve and handed to the
// handlers, so every handler can be exercised against an htmldom document
// and a clock.Manual without a browser.
package behavior
