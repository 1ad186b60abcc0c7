//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// RiskLevel is the severity of an issue or of a whole analysis
// ENUM(SAFE,WARNING,CRITICAL)
type RiskLevel string
