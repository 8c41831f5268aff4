// Package ui is the Bubble Tea program of the multiplexer. One Model owns the
// terminal and hosts a session.Table: whatever is on screen belongs to the
// active session, and switching parks it in the table and restores another.
//
// Message flow:
//   - Update routes each tea.Msg through a handler registry keyed by message
//     type. Key presses go to the leader machine first; what it does not
//     consume reaches the embedded program, the open form or the menu, in
//     that order. A switch key is applied before the next key is routed.
//   - Menu actions run on the command bus and report back with typed
//     messages (launch, switch, close, rename, login, logout, quit).
//   - A tick drives the loop: leader timeout, a switch queued from the
//     menu, reaping and draining the live program, notice expiry and the
//     status bar. The frame is only rebuilt when one of those changed
//     something.
//
// State ownership:
//   - Menu levels live in internal/ui/state.Level.
//   - Parked screens, prompts and processes live in the session table; the
//     model only holds the live one.
//   - Clock and battery readings arrive from backend.Watcher and are kept in
//     a state.StatusStore by the dispatcher.
package ui
