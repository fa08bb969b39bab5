package ui

import (
	"time"

	"buddy/model"
)

// Results of service commands, defined in the model package
type chatReplyMsg = model.ChatReplyMsg
type entertainmentMsg = model.EntertainmentMsg
type connectionTestedMsg = model.ConnectionTestedMsg
type modelsListMsg = model.ModelsListMsg

// markdownRenderedMsg carries the terminal rendering of one transcript line.
type markdownRenderedMsg struct {
	Index    int
	Content  string
	Rendered string
}

type lineKind int

const (
	lineUser lineKind = iota
	lineBuddy
	lineSystem
	lineError
)

// chatLine is one entry of the on-screen transcript. The transcript is a
// display log; the conversation history sent to providers lives in
// model.Service.
type chatLine struct {
	Kind      lineKind
	Content   string
	Rendered  string
	Timestamp time.Time
}
