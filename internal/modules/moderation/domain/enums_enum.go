// Helpers for the ENUM declarations in enums.go, in the shape go-enum emits
// for --names --nocase. Running go generate replaces this file.

package domain

import (
	"fmt"
	"strings"
)

const (
	// RiskLevelSAFE is a RiskLevel of type SAFE.
	RiskLevelSAFE RiskLevel = "SAFE"
	// RiskLevelWARNING is a RiskLevel of type WARNING.
	RiskLevelWARNING RiskLevel = "WARNING"
	// RiskLevelCRITICAL is a RiskLevel of type CRITICAL.
	RiskLevelCRITICAL RiskLevel = "CRITICAL"
)

var ErrInvalidRiskLevel = fmt.Errorf("not a valid RiskLevel, try [%s]", strings.Join(_RiskLevelNames, ", "))

var _RiskLevelNames = []string{
	string(RiskLevelSAFE),
	string(RiskLevelWARNING),
	string(RiskLevelCRITICAL),
}

// RiskLevelNames returns a list of possible string values of RiskLevel.
func RiskLevelNames() []string {
	tmp := make([]string, len(_RiskLevelNames))
	copy(tmp, _RiskLevelNames)
	return tmp
}

// String implements the Stringer interface.
func (x RiskLevel) String() string {
	return string(x)
}

// IsValid provides a quick way to determine if the typed value is
// part of the allowed enumerated values
func (x RiskLevel) IsValid() bool {
	_, err := ParseRiskLevel(string(x))
	return err == nil
}

var _RiskLevelValue = map[string]RiskLevel{
	"SAFE":     RiskLevelSAFE,
	"safe":     RiskLevelSAFE,
	"WARNING":  RiskLevelWARNING,
	"warning":  RiskLevelWARNING,
	"CRITICAL": RiskLevelCRITICAL,
	"critical": RiskLevelCRITICAL,
}

// ParseRiskLevel attempts to convert a string to a RiskLevel.
func ParseRiskLevel(name string) (RiskLevel, error) {
	if x, ok := _RiskLevelValue[name]; ok {
		return x, nil
	}
	// Case insensitive parse, do a separate lookup to prevent unnecessary cost of lowercasing a string if we don't need to.
	if x, ok := _RiskLevelValue[strings.ToLower(name)]; ok {
		return x, nil
	}
	return RiskLevel(""), fmt.Errorf("%s is %w", name, ErrInvalidRiskLevel)
}
