package model

// Messages delivered to the bubbletea program when a command finishes.

type ChatReplyMsg struct {
	Prompt string
	Reply  ChatReply
}

type EntertainmentMsg struct {
	Category string
	Reply    ChatReply
}

type ConnectionTestedMsg struct {
	ProviderID string
	Result     ConnectionResult
}

type ModelsListMsg struct {
	ProviderID string
	Models     []ModelInfo
	Err        error
}

type OpResultMsg struct {
	Action string
	Result OpResult
}
