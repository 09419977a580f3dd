// Package dom defines the document model the page behaviors run against.
//
// The interfaces cover the small slice of the browser DOM that pagefx
// needs: element lookup, class lists, inline style, text, events, scroll
// position and intersection observers. Two implementations exist:
//
//   - htmldom: an in-memory document parsed from HTML, with drivers to
//     simulate clicks, blurs, scrolling and viewport intersection. Used by
//     tests and by the audit command.
//   - jsdom: the live browser document, available in js/wasm builds.
//
// # Absent Elements
//
// Lookups that find nothing return a nil Element (an untyped nil
// interface), never a non-nil interface wrapping a nil pointer. Callers
// guard with a plain nil check:
//
//	if btn := doc.GetElementByID("mobileMenuBtn"); btn != nil {
//	    btn.AddEventListener(dom.EventClick, onClick)
//	}
package dom
