package errors

import (
	"errors"
	"fmt"

	"github.com/samber/oops"
)

var (
	ErrMissingAPIKey = errors.New("AI_API_KEY environment variable is required")

	ErrConfiguration = errors.New("configuration error")
	ErrTransport     = errors.New("transport error")
	ErrAPI           = errors.New("api error")
	ErrParse         = errors.New("could not parse model output")

	ErrAnalysis   = errors.New("analysis failed")
	ErrGeneration = errors.New("generation failed")

	ErrSessionNotFound   = errors.New("session not found")
	ErrEmptyContent      = errors.New("nothing to analyze")
	ErrBusy              = errors.New("operation already in progress")
	ErrNoAnalysis        = errors.New("no analysis result")
	ErrPublishNotAllowed = errors.New("publishing is not allowed")
	ErrSuperseded        = errors.New("result superseded by a newer edit")
	ErrUnknownPlatform   = errors.New("unknown platform")
)

// Configuration marks err as a missing or invalid configuration problem.
func Configuration(err error) error {
	return classify("configuration", ErrConfiguration, err)
}

// Transport marks err as a network or HTTP level failure.
func Transport(err error) error {
	return classify("transport", ErrTransport, err)
}

// API marks err as a structured error reported by a remote service.
func API(err error) error {
	return classify("api", ErrAPI, err)
}

// Parse marks err as malformed model output.
func Parse(err error) error {
	return classify("parse", ErrParse, err)
}

// Analysis wraps a moderation failure. The taxonomy of err is preserved.
func Analysis(err error) error {
	return oops.In("moderation").Wrap(fmt.Errorf("%w: %w", ErrAnalysis, err))
}

// Generation wraps a generation failure. The taxonomy of err is preserved.
func Generation(err error) error {
	return oops.In("generation").Wrap(fmt.Errorf("%w: %w", ErrGeneration, err))
}

func classify(code string, kind, err error) error {
	if err == nil {
		err = kind
	}
	if errors.Is(err, kind) {
		return oops.Code(code).Wrap(err)
	}
	return oops.Code(code).Wrap(fmt.Errorf("%w: %w", kind, err))
}
