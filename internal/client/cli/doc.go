// Package cli is the interactive library console.
//
// It wires configuration, the local session store, the API gateway and the
// services, then runs a REPL. Every command belongs to a console page; the
// session's route guard decides whether the current role may open it, and
// anything it refuses falls back to the dashboard.
//
// Administrators manage the catalog, copies, readers, loans and statistics.
// Readers see their own loans, browse the catalog and borrow, return or
// renew for themselves.
//
// A 401 from the server ends the session and the console asks for a new
// login before the next command.
package cli
