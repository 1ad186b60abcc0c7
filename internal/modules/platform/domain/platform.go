package domain

import (
	"net/url"
)

// Descriptor is the static configuration of a supported platform
type Descriptor struct {
	ID          Platform `json:"id"`
	Name        string   `json:"name"`
	HomeURL     string   `json:"homeUrl,omitempty"`
	SupportsAPI bool     `json:"supportsApi"`

	shareURL func(text string) string
}

// ShareURL builds the manual share link for text. Platforms without a share page return false.
func (d Descriptor) ShareURL(text string) (string, bool) {
	if d.shareURL == nil {
		return "", false
	}
	return d.shareURL(text), true
}

// HasShareURL reports whether the platform offers a share page.
func (d Descriptor) HasShareURL() bool {
	return d.shareURL != nil
}

// FallbackURL is the page opened when direct publishing is unavailable:
// the share link when there is one, the home page otherwise.
func (d Descriptor) FallbackURL(text string) string {
	if u, ok := d.ShareURL(text); ok {
		return u
	}
	return d.HomeURL
}

const shareTitle = "Публикация через ContentGuard"

var descriptors = []Descriptor{
	{
		ID:          PlatformTelegram,
		Name:        "Telegram",
		HomeURL:     "https://web.telegram.org/",
		SupportsAPI: true,
		shareURL: func(text string) string {
			// Telegram requires a url parameter; a single space keeps the shared link empty.
			return "https://t.me/share/url?url=%20&text=" + url.QueryEscape(text)
		},
	},
	{
		ID:          PlatformVk,
		Name:        "VKontakte",
		HomeURL:     "https://vk.com/",
		SupportsAPI: true,
		shareURL: func(text string) string {
			return "https://vk.com/share.php?title=" + url.QueryEscape(shareTitle) + "&comment=" + url.QueryEscape(text)
		},
	},
	{
		ID:          PlatformDiscord,
		Name:        "Discord",
		HomeURL:     "https://discord.com/app",
		SupportsAPI: true,
	},
}

// Descriptors returns the built-in platform table
func Descriptors() []Descriptor {
	return append([]Descriptor(nil), descriptors...)
}
