//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// Platform identifies a publishing target
// ENUM(telegram,vk,discord)
type Platform string
