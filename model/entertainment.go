package model

import (
	"context"
	"fmt"

	"buddy/config"
)

// Entertainment categories accepted by GetEntertainment.
const (
	EntertainmentJoke  = "joke"
	EntertainmentFact  = "fact"
	EntertainmentStory = "story"
	EntertainmentSing  = "sing"
)

// DaisyBell is returned for "sing" without contacting a provider.
const DaisyBell = `Daisy, Daisy, give me your answer, do!
I'm half crazy, all for the love of you!
It won't be a stylish marriage,
I can't afford a carriage,
But you'll look sweet upon the seat
Of a bicycle built for two!`

var entertainmentPrompts = map[string]string{
	EntertainmentJoke:  "Tell me a short, family-friendly joke.",
	EntertainmentFact:  "Tell me a fun and surprising fact in one or two sentences.",
	EntertainmentStory: "Tell me a very short story (3-4 sentences) about an adventure on the early internet.",
}

// EntertainmentCategories lists the accepted categories in menu order.
func EntertainmentCategories() []string {
	return []string{EntertainmentJoke, EntertainmentFact, EntertainmentStory, EntertainmentSing}
}

// GetEntertainment produces a joke, fact or story from the active provider,
// or the Daisy Bell lyrics for "sing". It never reads or writes the
// conversation history.
func (s *Service) GetEntertainment(ctx context.Context, category string) ChatReply {
	if category == EntertainmentSing {
		return ChatReply{Response: DaisyBell}
	}

	prompt, ok := entertainmentPrompts[category]
	if !ok {
		return ChatReply{Error: fmt.Sprintf("Unknown entertainment type: %s", category)}
	}

	p := s.resolveProvider()
	if p == nil {
		return ChatReply{Error: ErrProviderNotInitialized}
	}

	if config.Debug {
		config.DebugLog.Printf("[Service] GetEntertainment: category=%s provider=%s", category, p.ID())
	}

	result := p.SendMessage(ctx, []Message{UserMessage(prompt)}, s.systemPrompt(), ChatMaxTokens)
	if result.Err != nil {
		return ChatReply{Error: result.Err.Error()}
	}
	return ChatReply{Response: result.Response}
}
