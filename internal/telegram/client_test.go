package telegram

import (
	"testing"
	"time"
)

func TestNewClient_InvalidChatID(t *testing.T) {
	_, err := NewClient("token", "not-a-number", time.Second)
	if err == nil {
		t.Error("expected error for invalid chat ID, got nil")
	}
}

func TestNewClient_EmptyToken(t *testing.T) {
	_, err := NewClient("", "12345", time.Second)
	if err == nil {
		t.Error("expected error for empty token, got nil")
	}
}

func TestNewClient_Valid(t *testing.T) {
	c, err := NewClient("token", "-100123456", time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if c.ChatID() != -100123456 {
		t.Errorf("ChatID = %d, want -100123456", c.ChatID())
	}
}
