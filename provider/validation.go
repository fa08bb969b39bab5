package provider

import (
	"context"

	"buddy/config"
	"buddy/model"
)

// Connection check sent by TestConnection.
const (
	checkMessage      = `Say "connected" and nothing else.`
	checkSystemPrompt = "You are a helpful assistant. Respond with exactly one word."
	checkMaxTokens    = 10
)

// TestConnection implements model.Provider.TestConnection by sending a
// one-word request through the normal request path.
func (b *base) TestConnection(ctx context.Context) model.ConnectionResult {
	result := b.SendMessage(ctx, []model.Message{model.UserMessage(checkMessage)}, checkSystemPrompt, checkMaxTokens)
	if result.Err != nil {
		if config.Debug {
			config.DebugLog.Printf("[Provider:%s] TestConnection failed: %v", b.id, result.Err)
		}
		return model.ConnectionResult{Success: false, Error: result.Err.Error()}
	}

	return model.ConnectionResult{Success: true}
}
