// Package views contains the view controllers of the tracker client and the
// router that moves between them.
//
// Every controller is a small state machine. Its State is exactly one of
// Idle, Loading, Loaded or Failed(reason); a controller is never loading and
// failed at the same time. Failures are logged, translated to a short message
// and leave the controller ready for the user to retry.
//
// Controllers do not render anything. The terminal front end (package cli)
// reads their state and prints it.
//
// Each controller is bound to a lifecycle. Close cancels requests still in
// flight, and results that arrive after Close are dropped instead of being
// applied to a view that is gone.
package views
