package router

import (
	"chat-hub/contract"
	"chat-hub/domain"
	"chat-hub/sequencer"
	"context"
)

// NewChunkEmitter delivers in-order stream chunks to every connection of their owner.
func NewChunkEmitter(dispatcher contract.IDispatcher) sequencer.Emit {
	return func(ctx context.Context, chunk domain.StreamChunk) error {
		return dispatcher.Unicast(ctx, chunk.UserID, domain.NewOutbound(domain.AIChatChunk, chunk))
	}
}
