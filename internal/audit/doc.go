// Package audit checks a page against the behavior controller offline.
//
// An audit parses the HTML, resolves the behavior hooks and reports which
// behaviors would start and which optional hooks are absent. A simulated
// audit also drives a full session against a manual clock: the load
// event, a scroll past the navbar threshold, and every fade-in and
// counter element becoming fully visible.
package audit
