package service

import (
	"encoding/json"
	"errors"
	"strings"

	"ganesha-backend/models"
)

var (
	ErrNoJSONObject   = errors.New("no JSON object found in model output")
	ErrInvalidPayload = errors.New("model output failed response validation")
)

// ExtractJSONObject returns the substring from the first '{' to the last
// '}' inclusive. The model is told to emit nothing but a JSON object; when
// it wraps the object in prose anyway this recovers it. Missing markers
// mean the output is unusable - there is no re-prompt.
func ExtractJSONObject(raw string) (string, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return "", ErrNoJSONObject
	}
	return raw[start : end+1], nil
}

// StripControlChars removes ASCII control characters (0x00-0x1F). The model
// sometimes emits literal newlines or tabs inside JSON string values, which
// the strict parser rejects.
func StripControlChars(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 {
			return -1
		}
		return r
	}, s)
}

// ParseGaneshaResponse runs extraction, sanitization and validation over
// raw model output. The returned response carries the parsed fields
// verbatim; any failure yields an error and the caller falls back to the
// scripted parse-failure refusal.
func ParseGaneshaResponse(raw string) (models.GaneshaResponse, error) {
	candidate, err := ExtractJSONObject(raw)
	if err != nil {
		return models.GaneshaResponse{}, err
	}

	sanitized := StripControlChars(candidate)

	var resp models.GaneshaResponse
	if err := json.Unmarshal([]byte(sanitized), &resp); err != nil {
		return models.GaneshaResponse{}, err
	}

	// A success with no answer text, or a refusal with no explanation to
	// speak, would break the never-empty-answer contract downstream.
	if resp.Answer == "" {
		return models.GaneshaResponse{}, ErrInvalidPayload
	}

	return resp, nil
}
