// Helpers for the ENUM declarations in enums.go, in the shape go-enum emits
// for --names --nocase. Running go generate replaces this file.

package domain

import (
	"fmt"
	"strings"
)

const (
	// StateEmpty is a State of type empty.
	StateEmpty State = "empty"
	// StateEdited is a State of type edited.
	StateEdited State = "edited"
	// StateAnalyzing is a State of type analyzing.
	StateAnalyzing State = "analyzing"
	// StateAnalyzedSafe is a State of type analyzed_safe.
	StateAnalyzedSafe State = "analyzed_safe"
	// StateAnalyzedUnsafe is a State of type analyzed_unsafe.
	StateAnalyzedUnsafe State = "analyzed_unsafe"
	// StatePublishing is a State of type publishing.
	StatePublishing State = "publishing"
	// StatePublished is a State of type published.
	StatePublished State = "published"
	// StateFallback is a State of type fallback.
	StateFallback State = "fallback"
)

var ErrInvalidState = fmt.Errorf("not a valid State, try [%s]", strings.Join(_StateNames, ", "))

var _StateNames = []string{
	string(StateEmpty),
	string(StateEdited),
	string(StateAnalyzing),
	string(StateAnalyzedSafe),
	string(StateAnalyzedUnsafe),
	string(StatePublishing),
	string(StatePublished),
	string(StateFallback),
}

// StateNames returns a list of possible string values of State.
func StateNames() []string {
	tmp := make([]string, len(_StateNames))
	copy(tmp, _StateNames)
	return tmp
}

// String implements the Stringer interface.
func (x State) String() string {
	return string(x)
}

// IsValid provides a quick way to determine if the typed value is
// part of the allowed enumerated values
func (x State) IsValid() bool {
	_, err := ParseState(string(x))
	return err == nil
}

var _StateValue = map[string]State{
	"empty":           StateEmpty,
	"edited":          StateEdited,
	"analyzing":       StateAnalyzing,
	"analyzed_safe":   StateAnalyzedSafe,
	"analyzed_unsafe": StateAnalyzedUnsafe,
	"publishing":      StatePublishing,
	"published":       StatePublished,
	"fallback":        StateFallback,
}

// ParseState attempts to convert a string to a State.
func ParseState(name string) (State, error) {
	if x, ok := _StateValue[name]; ok {
		return x, nil
	}
	// Case insensitive parse, do a separate lookup to prevent unnecessary cost of lowercasing a string if we don't need to.
	if x, ok := _StateValue[strings.ToLower(name)]; ok {
		return x, nil
	}
	return State(""), fmt.Errorf("%s is %w", name, ErrInvalidState)
}
