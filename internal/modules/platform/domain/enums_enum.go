// Helpers for the ENUM declarations in enums.go, in the shape go-enum emits
// for --names --nocase. Running go generate replaces this file.

package domain

import (
	"fmt"
	"strings"
)

const (
	// PlatformTelegram is a Platform of type telegram.
	PlatformTelegram Platform = "telegram"
	// PlatformVk is a Platform of type vk.
	PlatformVk Platform = "vk"
	// PlatformDiscord is a Platform of type discord.
	PlatformDiscord Platform = "discord"
)

var ErrInvalidPlatform = fmt.Errorf("not a valid Platform, try [%s]", strings.Join(_PlatformNames, ", "))

var _PlatformNames = []string{
	string(PlatformTelegram),
	string(PlatformVk),
	string(PlatformDiscord),
}

// PlatformNames returns a list of possible string values of Platform.
func PlatformNames() []string {
	tmp := make([]string, len(_PlatformNames))
	copy(tmp, _PlatformNames)
	return tmp
}

// String implements the Stringer interface.
func (x Platform) String() string {
	return string(x)
}

// IsValid provides a quick way to determine if the typed value is
// part of the allowed enumerated values
func (x Platform) IsValid() bool {
	_, err := ParsePlatform(string(x))
	return err == nil
}

var _PlatformValue = map[string]Platform{
	"telegram": PlatformTelegram,
	"vk":       PlatformVk,
	"discord":  PlatformDiscord,
}

// ParsePlatform attempts to convert a string to a Platform.
func ParsePlatform(name string) (Platform, error) {
	if x, ok := _PlatformValue[name]; ok {
		return x, nil
	}
	// Case insensitive parse, do a separate lookup to prevent unnecessary cost of lowercasing a string if we don't need to.
	if x, ok := _PlatformValue[strings.ToLower(name)]; ok {
		return x, nil
	}
	return Platform(""), fmt.Errorf("%s is %w", name, ErrInvalidPlatform)
}
