package models

type MessageType int

const (
	User MessageType = iota
	Step
	Program
	Notice
)

// Message is a single line in the TUI activity log.
type Message struct {
	Content string
	Type    MessageType
	Section string // section name, for Step messages tied to one
}
