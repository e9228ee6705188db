// Package cli is the interactive front end of the RFP monitor.
//
// It drives the engine through a line-oriented REPL: sign in or register,
// walk onboarding, then manage search areas, RFPs and users, read the audit
// trail, export or back up data and control sync. Engine notifications are
// printed inline as "[level] message".
//
// The REPL is started via App.Run, which blocks until the user exits.
package cli
