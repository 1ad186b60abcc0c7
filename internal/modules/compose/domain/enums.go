//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// State is the publish readiness of a compose session
// ENUM(empty,edited,analyzing,analyzed_safe,analyzed_unsafe,publishing,published,fallback)
type State string
