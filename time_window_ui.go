package main

import (
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/Trashbot7274/lunascope/annot"
)

const (
	timeWindowFocusStart = iota
	timeWindowFocusEnd
	timeWindowFocusScrubber
)

const (
	timeWindowDrawerContentHeight = 5
	timeWindowDrawerHeight        = timeWindowDrawerContentHeight + 2

	// steps in seconds
	timeWindowStepMin     = 1.0
	timeWindowStepDefault = 30.0
	timeWindowStepMax     = 3600.0
)

type timeWindowUI struct {
	open       bool
	focus      int
	startInput textinput.Model
	endInput   textinput.Model
	errorMsg   string
	draft      annot.Window
	hasDraft   bool
	step       float64
}

func newTimeWindowUI() timeWindowUI {
	return timeWindowUI{
		startInput: initTimeWindowInput(),
		endInput:   initTimeWindowInput(),
		step:       timeWindowStepDefault,
	}
}

func initTimeWindowInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "seconds"
	ti.CharLimit = 16
	ti.Width = 16
	ti.Prompt = ""
	return ti
}
