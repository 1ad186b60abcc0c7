//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package config

// AppEnv represents the application environment
// ENUM(local,production,development,testing)
type AppEnv string

// FixPolicy decides what applying a suggested rewrite does to the analysis.
// trust marks the rewrite safe without another moderation call, reverify re-runs moderation on it.
// ENUM(trust,reverify)
type FixPolicy string
