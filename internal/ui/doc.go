// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI has two views over the summary library:
//  1. [ListView] : Browse records (author and title), delete or reload
//  2. [DetailView] : Read one record's summaries and open its link
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Remote calls run as [tea.Cmd] functions against the [tasks.Library] and come back as Msg values, so all state changes
// happen in Update.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, d, r, 1-3, o, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
