// Helpers for the ENUM declarations in enums.go, in the shape go-enum emits
// for --names --nocase. Running go generate replaces this file.

package config

import (
	"fmt"
	"strings"
)

const (
	// AppEnvLocal is a AppEnv of type local.
	AppEnvLocal AppEnv = "local"
	// AppEnvProduction is a AppEnv of type production.
	AppEnvProduction AppEnv = "production"
	// AppEnvDevelopment is a AppEnv of type development.
	AppEnvDevelopment AppEnv = "development"
	// AppEnvTesting is a AppEnv of type testing.
	AppEnvTesting AppEnv = "testing"
)

var ErrInvalidAppEnv = fmt.Errorf("not a valid AppEnv, try [%s]", strings.Join(_AppEnvNames, ", "))

var _AppEnvNames = []string{
	string(AppEnvLocal),
	string(AppEnvProduction),
	string(AppEnvDevelopment),
	string(AppEnvTesting),
}

// AppEnvNames returns a list of possible string values of AppEnv.
func AppEnvNames() []string {
	tmp := make([]string, len(_AppEnvNames))
	copy(tmp, _AppEnvNames)
	return tmp
}

// String implements the Stringer interface.
func (x AppEnv) String() string {
	return string(x)
}

// IsValid provides a quick way to determine if the typed value is
// part of the allowed enumerated values
func (x AppEnv) IsValid() bool {
	_, err := ParseAppEnv(string(x))
	return err == nil
}

var _AppEnvValue = map[string]AppEnv{
	"local":       AppEnvLocal,
	"production":  AppEnvProduction,
	"development": AppEnvDevelopment,
	"testing":     AppEnvTesting,
}

// ParseAppEnv attempts to convert a string to a AppEnv.
func ParseAppEnv(name string) (AppEnv, error) {
	if x, ok := _AppEnvValue[name]; ok {
		return x, nil
	}
	// Case insensitive parse, do a separate lookup to prevent unnecessary cost of lowercasing a string if we don't need to.
	if x, ok := _AppEnvValue[strings.ToLower(name)]; ok {
		return x, nil
	}
	return AppEnv(""), fmt.Errorf("%s is %w", name, ErrInvalidAppEnv)
}

const (
	// FixPolicyTrust is a FixPolicy of type trust.
	FixPolicyTrust FixPolicy = "trust"
	// FixPolicyReverify is a FixPolicy of type reverify.
	FixPolicyReverify FixPolicy = "reverify"
)

var ErrInvalidFixPolicy = fmt.Errorf("not a valid FixPolicy, try [%s]", strings.Join(_FixPolicyNames, ", "))

var _FixPolicyNames = []string{
	string(FixPolicyTrust),
	string(FixPolicyReverify),
}

// FixPolicyNames returns a list of possible string values of FixPolicy.
func FixPolicyNames() []string {
	tmp := make([]string, len(_FixPolicyNames))
	copy(tmp, _FixPolicyNames)
	return tmp
}

// String implements the Stringer interface.
func (x FixPolicy) String() string {
	return string(x)
}

// IsValid provides a quick way to determine if the typed value is
// part of the allowed enumerated values
func (x FixPolicy) IsValid() bool {
	_, err := ParseFixPolicy(string(x))
	return err == nil
}

var _FixPolicyValue = map[string]FixPolicy{
	"trust":    FixPolicyTrust,
	"reverify": FixPolicyReverify,
}

// ParseFixPolicy attempts to convert a string to a FixPolicy.
func ParseFixPolicy(name string) (FixPolicy, error) {
	if x, ok := _FixPolicyValue[name]; ok {
		return x, nil
	}
	// Case insensitive parse, do a separate lookup to prevent unnecessary cost of lowercasing a string if we don't need to.
	if x, ok := _FixPolicyValue[strings.ToLower(name)]; ok {
		return x, nil
	}
	return FixPolicy(""), fmt.Errorf("%s is %w", name, ErrInvalidFixPolicy)
}
