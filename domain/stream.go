package domain

import (
	"sort"
	"strconv"
	"time"
)

type FinishReason string

const (
	FinishStop    FinishReason = "stop"
	FinishLength  FinishReason = "length"
	FinishError   FinishReason = "error"
	FinishTimeout FinishReason = "timeout"
)

// StreamChunk is one fragment of an incremental response, ordered by SequenceNumber
// within its (ConversationID, RequestID) stream.
type StreamChunk struct {
	ConversationID string        `json:"conversationId"`
	RequestID      string        `json:"requestId"`
	MessageID      string        `json:"messageId,omitempty"`
	UserID         string        `json:"userId"`
	SequenceNumber int64         `json:"sequenceNumber"`
	Delta          string        `json:"delta"`
	IsComplete     bool          `json:"isComplete"`
	FinishReason   *FinishReason `json:"finishReason,omitempty"`
	TokenCount     *int          `json:"tokenCount,omitempty"`
	ErrorMessage   *string       `json:"error,omitempty"`
	Timestamp      time.Time     `json:"timestamp"`
}

func (c StreamChunk) Key() StreamKey {
	return StreamKey{ConversationID: c.ConversationID, RequestID: c.RequestID}
}

type StreamKey struct {
	ConversationID string `json:"conversationId"`
	RequestID      string `json:"requestId"`
}

// String is unambiguous for any pair of ids: the conversation id is length prefixed.
func (k StreamKey) String() string {
	return strconv.Itoa(len(k.ConversationID)) + ":" + k.ConversationID + ":" + k.RequestID
}

// StreamState is the sequencing state of one stream.
// Buffered chunks are kept sorted by sequence number.
type StreamState struct {
	Key         StreamKey     `json:"key"`
	UserID      string        `json:"userId"`
	Next        int64         `json:"next"`
	Buffer      []StreamChunk `json:"buffer,omitempty"`
	TerminalSeq *int64        `json:"terminalSeq,omitempty"`
	Closed      bool          `json:"closed"`
	LastSeenAt  time.Time     `json:"lastSeenAt"`
}

// Buffered reports whether a chunk with this sequence number is already buffered.
func (s *StreamState) Buffered(seq int64) bool {
	i := sort.Search(len(s.Buffer), func(i int) bool { return s.Buffer[i].SequenceNumber >= seq })
	return i < len(s.Buffer) && s.Buffer[i].SequenceNumber == seq
}

// Insert adds a chunk to the buffer keeping the sequence order.
func (s *StreamState) Insert(chunk StreamChunk) {
	i := sort.Search(len(s.Buffer), func(i int) bool { return s.Buffer[i].SequenceNumber >= chunk.SequenceNumber })
	s.Buffer = append(s.Buffer, StreamChunk{})
	copy(s.Buffer[i+1:], s.Buffer[i:])
	s.Buffer[i] = chunk
}

// Ready reports whether the head of the buffer is the next chunk to deliver.
func (s *StreamState) Ready() bool {
	return len(s.Buffer) > 0 && s.Buffer[0].SequenceNumber == s.Next
}

// Pop removes the head of the buffer and advances Next past it.
// It must only be called when Ready.
func (s *StreamState) Pop() StreamChunk {
	head := s.Buffer[0]
	s.Buffer = s.Buffer[1:]
	if len(s.Buffer) == 0 {
		s.Buffer = nil
	}
	s.Next++
	return head
}
