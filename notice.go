package main

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Trashbot7274/lunascope/errs"
)

type clearNoticeMsg struct{ id int }

const noticeDuration = 2 * time.Second

func noticeText(msg, kind string) string {
	if msg == "" {
		return ""
	}
	var icon string
	switch kind {
	case "info":
		icon = "ℹ"
	case "success":
		icon = "✓"
	case "warn":
		icon = "!"
	case "error":
		icon = "×"
	default:
		icon = ""
	}
	if icon == "" {
		return msg
	}
	return icon + " " + msg
}

func (m *model) startNotice(msg, msgType string, d time.Duration) tea.Cmd {
	m.ui.noticeMsg = msg
	m.ui.noticeType = msgType

	// bump sequence to invalidate older timers
	m.ui.noticeSeq++
	id := m.ui.noticeSeq

	return tea.Tick(d, func(time.Time) tea.Msg { return clearNoticeMsg{id: id} })
}

// errorNotice shows err as a warning when the input was rejected and as an
// error otherwise.
func (m *model) errorNotice(prefix string, err error) tea.Cmd {
	kind := "error"
	if errors.Is(err, errs.ErrValidation) || errors.Is(err, errs.ErrOutOfRange) {
		kind = "warn"
	}
	return m.startNotice(prefix+": "+err.Error(), kind, noticeDuration)
}
