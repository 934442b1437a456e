package oairealtime

import (
	"context"
	"errors"
	"fmt"
)

// CreateConversationItem adds an item to the conversation.
// Use this to inject user messages, assistant messages, or function call
// results. The server acknowledges with a conversation.item.created event.
func (c *Client) CreateConversationItem(ctx context.Context, item ConversationItem) error {
	if ctx == nil {
		return NewSendError("conversation.item.create", "", errors.New("context cannot be nil"))
	}

	if err := ValidateConversationItem(item); err != nil {
		return NewSendError("conversation.item.create", "", err)
	}

	payload := map[string]any{"type": "conversation.item.create", "item": item}
	return c.send(ctx, "conversation.item.create", payload)
}

// CreateUserMessage adds a user text message to the conversation. This is the
// common prelude to CreateResponse for text round trips.
func (c *Client) CreateUserMessage(ctx context.Context, text string) error {
	return c.CreateConversationItem(ctx, ConversationItem{
		Type: "message",
		Role: "user",
		Content: []ContentPart{
			{Type: "input_text", Text: text},
		},
	})
}

// TruncateConversationItem truncates an assistant audio message that has
// already been sent, e.g. after a user interruption. audioEndMs is the
// duration of audio to keep.
func (c *Client) TruncateConversationItem(ctx context.Context, itemID string, contentIndex, audioEndMs int) error {
	if ctx == nil {
		return NewSendError("conversation.item.truncate", "", errors.New("context cannot be nil"))
	}
	if itemID == "" {
		return NewSendError("conversation.item.truncate", "", errors.New("item ID is required"))
	}
	if contentIndex < 0 {
		return NewSendError("conversation.item.truncate", "", errors.New("content index must be non-negative"))
	}
	if audioEndMs < 0 {
		return NewSendError("conversation.item.truncate", "", errors.New("audio end time must be non-negative"))
	}

	payload := map[string]any{
		"type":          "conversation.item.truncate",
		"item_id":       itemID,
		"content_index": contentIndex,
		"audio_end_ms":  audioEndMs,
	}
	return c.send(ctx, "conversation.item.truncate", payload)
}

// DeleteConversationItem removes an item from the conversation history.
func (c *Client) DeleteConversationItem(ctx context.Context, itemID string) error {
	if ctx == nil {
		return NewSendError("conversation.item.delete", "", errors.New("context cannot be nil"))
	}
	if itemID == "" {
		return NewSendError("conversation.item.delete", "", errors.New("item ID is required"))
	}

	payload := map[string]any{"type": "conversation.item.delete", "item_id": itemID}
	return c.send(ctx, "conversation.item.delete", payload)
}

// ValidateConversationItem validates a conversation item before sending.
func ValidateConversationItem(item ConversationItem) error {
	if item.Type == "" {
		return errors.New("item type is required")
	}

	validTypes := map[string]bool{"message": true, "function_call": true, "function_call_output": true}
	if !validTypes[item.Type] {
		return fmt.Errorf("invalid item type %q, must be 'message', 'function_call' or 'function_call_output'", item.Type)
	}

	if item.Type == "message" {
		if item.Role != "" {
			validRoles := map[string]bool{"user": true, "assistant": true, "system": true}
			if !validRoles[item.Role] {
				return fmt.Errorf("invalid role %q, must be 'user', 'assistant' or 'system'", item.Role)
			}
		}
		for i, part := range item.Content {
			if part.Type == "" {
				return fmt.Errorf("content[%d].type is required", i)
			}
		}
	}

	return nil
}
