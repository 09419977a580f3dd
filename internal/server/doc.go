// Package server serves the landing page and its supporting endpoints.
//
// Routes:
//
//	GET    /                  landing page, dark class from the visitor's flag
//	POST   /contact           server-side validation, redirect with a flash
//	GET    /api/pref/{key}    read a visitor preference
//	PUT    /api/pref/{key}    write a visitor preference (rate limited)
//	DELETE /api/pref/{key}    remove a visitor preference (rate limited)
//	POST   /api/announce      bearer-guarded toast broadcast
//	GET    /ws/toast          toast subscription
//	GET    /assets/site.css   embedded stylesheet
//	GET    /static/*          files from the configured static dir
//	GET    /metrics, /healthz
//
// Visitors are identified by a uuid cookie. Preferences are stored under
// "<visitor>:<key>" in the configured pref.Store.
package server
