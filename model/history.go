package model

// MaxHistory is the number of messages kept in a conversation.
const MaxHistory = 20

// History is a bounded, oldest-first conversation log. The zero value is
// an empty history. History is not safe for concurrent use; Service
// guards it.
type History struct {
	messages []Message
}

// Append adds msgs and evicts from the front until at most MaxHistory remain.
func (h *History) Append(msgs ...Message) {
	h.messages = append(h.messages, msgs...)
	if over := len(h.messages) - MaxHistory; over > 0 {
		// Copy so the evicted prefix can be collected
		h.messages = append([]Message(nil), h.messages[over:]...)
	}
}

// Snapshot returns a copy that Restore can later reinstate.
func (h *History) Snapshot() []Message {
	return append([]Message(nil), h.messages...)
}

// Restore replaces the contents with a previous Snapshot.
func (h *History) Restore(snapshot []Message) {
	h.messages = append([]Message(nil), snapshot...)
}

// Messages returns a copy of the current messages.
func (h *History) Messages() []Message {
	return h.Snapshot()
}

func (h *History) Len() int {
	return len(h.messages)
}

func (h *History) Clear() {
	h.messages = nil
}
