// Package ui provides the Bubble Tea product browser behind `stoq browse`.
//
// # Architecture
//
// Model follows the Elm architecture. It holds a listctl.Controller and
// renders from its State and Window; every navigation key calls a
// controller command and turns the returned listctl.Request into a tea.Cmd
// that runs the fetch off the update loop:
//
//	key press -> controller command -> Request -> tea.Cmd (listctl.Run)
//	         -> listLoadedMsg -> Controller.Apply -> optional corrective Request
//
// Responses carry the sequence number of their request, so a slow page
// arriving after a newer one is dropped by the controller. Quitting closes
// the controller so in-flight responses are ignored.
//
// # Screens
//
//   - List: toolbar (search box, items-per-page selector), "Filtering by"
//     indicator, error banner, product table, pagination bar and the
//     "Page X of Y (N total items)" line
//   - Detail: the selected row's fields in a modal
//   - Form: create or edit; edit loads the product by ID first and sends
//     every field on save
//   - Help: key bindings, generated from keyMap
//
// # Files
//
//   - app.go: Model, Options, Update routing, list keys, Run
//   - commands.go: messages and the tea.Cmd constructors
//   - list.go: toolbar, table, pagination rendering
//   - form.go: create/edit form state, validation and rendering
//   - detail.go, help.go, header.go: the remaining views
//   - theme.go, style_helpers.go, strings.go: styling helpers
//
// Themes are Dracula and Slate; T cycles them and the choice is saved
// through package prefs.
package ui
