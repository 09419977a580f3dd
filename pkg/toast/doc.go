// Package toast provides toast notifications for pagefx pages.
//
// A toast is a transient element with class "toast <kind>" appended to the
// #messageContainer element. It shows for DisplayDuration, plays
// ExitAnimation for ExitDuration and is then removed. The browser side
// lives in pkg/behavior; this package holds the shared vocabulary (kinds,
// icons, markup) and the server-side Hub that pushes notices to open
// pages.
//
// # Pushing Toasts
//
// The Hub accepts WebSocket subscribers and fans out JSON notices:
//
//	hub := toast.NewHub(toast.WithLogger(logger))
//	r.Get("/ws/toast", hub.ServeHTTP)
//
//	toast.Success(hub, "Deploy finished")
//
// Each page receives {"level":"success","message":"Deploy finished"} and
// shows it with the same markup as a locally created toast.
package toast
