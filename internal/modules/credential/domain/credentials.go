package domain

import (
	platform "github.com/reshetovitsme/contentguard/internal/modules/platform/domain"
)

// Credentials holds the per-platform secrets needed for direct publishing
type Credentials struct {
	TelegramToken     string `json:"telegramToken"`
	TelegramChatID    string `json:"telegramChatId"`
	VKToken           string `json:"vkToken"`
	VKOwnerID         string `json:"vkOwnerId"`
	DiscordWebhookURL string `json:"discordWebhookUrl"`
	DiscordBotToken   string `json:"discordBotToken,omitempty"`
	DiscordChannelID  string `json:"discordChannelId,omitempty"`
}

// HasFor reports whether enough credentials are present to try publishing to p
func (c *Credentials) HasFor(p platform.Platform) bool {
	if c == nil {
		return false
	}
	switch p {
	case platform.PlatformTelegram:
		return c.TelegramToken != "" && c.TelegramChatID != ""
	case platform.PlatformVk:
		return c.VKToken != "" && c.VKOwnerID != ""
	case platform.PlatformDiscord:
		return c.DiscordWebhookURL != "" || (c.DiscordBotToken != "" && c.DiscordChannelID != "")
	default:
		return false
	}
}

// Masked returns a copy safe to show back to the user: secrets keep only their last four characters.
func (c Credentials) Masked() Credentials {
	c.TelegramToken = mask(c.TelegramToken)
	c.VKToken = mask(c.VKToken)
	c.DiscordWebhookURL = mask(c.DiscordWebhookURL)
	c.DiscordBotToken = mask(c.DiscordBotToken)
	return c
}

func mask(secret string) string {
	r := []rune(secret)
	if len(r) <= 4 {
		if len(r) == 0 {
			return ""
		}
		return "****"
	}
	return "****" + string(r[len(r)-4:])
}

// MergeMasked applies an edited set onto c. Fields the user sent back still masked keep their stored value.
func (c Credentials) MergeMasked(edited Credentials) Credentials {
	keep := func(stored, incoming string) string {
		if incoming != "" && incoming == mask(stored) {
			return stored
		}
		return incoming
	}
	edited.TelegramToken = keep(c.TelegramToken, edited.TelegramToken)
	edited.VKToken = keep(c.VKToken, edited.VKToken)
	edited.DiscordWebhookURL = keep(c.DiscordWebhookURL, edited.DiscordWebhookURL)
	edited.DiscordBotToken = keep(c.DiscordBotToken, edited.DiscordBotToken)
	return edited
}
