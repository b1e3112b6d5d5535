package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ytsum/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgRecordsLoaded MsgKind = iota
	MsgRecordDeleted
	MsgLinkOpened
)

// recordsLoadedMsg is the constructor for [MsgRecordsLoaded]
func recordsLoadedMsg(out tasks.Outcome) Msg {
	return Msg{kind: MsgRecordsLoaded, data: out}
}

// recordDeletedMsg is the constructor for [MsgRecordDeleted]
func recordDeletedMsg(out tasks.Outcome) Msg {
	return Msg{kind: MsgRecordDeleted, data: out}
}

// linkOpenedMsg is the constructor for [MsgLinkOpened]
func linkOpenedMsg(url string, err error) Msg {
	return Msg{
		kind: MsgLinkOpened,
		data: struct {
			url string
			err error
		}{url, err},
	}
}
