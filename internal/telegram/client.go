// Package telegram provides the downstream message sink backed by the
// Telegram Bot API.
package telegram

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Client delivers alert text to a single Telegram chat. Each Deliver call is
// one network attempt; retry policy belongs to the dispatch engine.
type Client struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewClient creates a new Telegram client. The bot is constructed without the
// eager getMe probe, so an unreachable API or bad token surfaces later as
// delivery or identity-resolution errors instead of a startup failure.
func NewClient(botToken, chatID string, requestTimeout time.Duration) (*Client, error) {
	if botToken == "" {
		return nil, fmt.Errorf("bot token must not be empty")
	}
	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat ID: %w", err)
	}
	if requestTimeout <= 0 {
		requestTimeout = 10 * time.Second
	}

	bot := &tgbotapi.BotAPI{
		Token:  botToken,
		Client: &http.Client{Timeout: requestTimeout},
		Buffer: 100,
	}
	bot.SetAPIEndpoint(tgbotapi.APIEndpoint)

	return &Client{bot: bot, chatID: chatIDInt}, nil
}

// Deliver performs a single sendMessage attempt. The request timeout of the
// underlying HTTP client bounds the attempt.
func (c *Client) Deliver(text string) error {
	msg := tgbotapi.NewMessage(c.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := c.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send failed: %w", err)
	}
	return nil
}

// Identity resolves the bot's username via getMe.
func (c *Client) Identity() (string, error) {
	me, err := c.bot.GetMe()
	if err != nil {
		return "", fmt.Errorf("failed to resolve bot identity: %w", err)
	}
	return me.UserName, nil
}

// ChatID returns the configured destination chat.
func (c *Client) ChatID() int64 {
	return c.chatID
}
