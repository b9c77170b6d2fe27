package api

import (
	"time"

	"github.com/opencontainers/go-digest"

	"github.com/samcharles93/blorbview/internal/report"
)

// GameSummary is one entry of GET /v1/games.
type GameSummary struct {
	Name   string        `json:"name"`
	Type   string        `json:"type,omitempty"`
	Size   int           `json:"size,omitempty"`
	Digest digest.Digest `json:"digest,omitempty"`
	Error  string        `json:"error,omitempty"`
}

// GameList is the body of GET /v1/games.
type GameList struct {
	Object string        `json:"object"`
	Data   []GameSummary `json:"data"`
}

// GameDetail is the body of GET /v1/games/:name.
type GameDetail struct {
	ID       string    `json:"id"`
	LoadedAt time.Time `json:"loaded_at"`
	report.Game
}

// ResourceList is the body of GET /v1/games/:name/resources/:usage.
type ResourceList struct {
	Object string            `json:"object"`
	Usage  string            `json:"usage"`
	Data   []report.Resource `json:"data"`
}

// StringItem is one decoded string.
type StringItem struct {
	Address uint32 `json:"address"`
	Type    string `json:"type"`
	Length  uint32 `json:"length"`
	Text    string `json:"text"`
}

// StringList is the body of GET /v1/games/:name/strings.
type StringList struct {
	Object string       `json:"object"`
	Total  int          `json:"total"`
	Offset int          `json:"offset"`
	Data   []StringItem `json:"data"`
}

// ResponseError is the error envelope payload.
type ResponseError struct {
	Message string `json:"message,omitempty"`
	Type    string `json:"type,omitempty"`
	Code    string `json:"code,omitempty"`
}
