// Package cli provides the interactive tracker command-line client.
//
// It wires configuration, the local session database, the REST API client
// and the view controllers behind a small REPL. On start the persisted
// session is restored and checked against the server; without a session the
// login view is shown.
//
// Commands
//
//	register, login, logout, whoami
//	list, next, prev, search <text>, filter <field> <value>, sort <key>, clear
//	show <id>, new, edit <id>, delete <id>, back
//
// Tables and badges are drawn with lipgloss. Passwords are read without echo
// through golang.org/x/term.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
