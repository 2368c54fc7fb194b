package models

import (
	"strings"
	"time"
)

const (
	KindText = "text"
	KindLink = "link"

	ReactionLike   = "like"
	ReactionHeart  = "heart"
	ReactionRocket = "rocket"
)

// ReactionKinds are the three reaction categories a caller can send.
var ReactionKinds = []string{ReactionLike, ReactionHeart, ReactionRocket}

// Post holds content plus engagement counters. Views bought through
// sponsorship are split between Views (already surfaced) and PendingViews
// (drained by the periodic growth step).
type Post struct {
	ID           string    `json:"id"`
	AuthorID     string    `json:"author_id"`
	Body         string    `json:"body"`
	Kind         string    `json:"kind" enums:"text,link"`
	Likes        int64     `json:"likes"`
	Hearts       int64     `json:"hearts"`
	Rockets      int64     `json:"rockets"`
	Shares       int64     `json:"shares"`
	Views        int64     `json:"views"`
	PendingViews int64     `json:"-"`
	Sponsored    bool      `json:"sponsored"`
	CreatedAt    time.Time `json:"created_at"`
}

// InferKind classifies a body as a link when it is a bare URL.
func InferKind(body string) string {
	trimmed := strings.TrimSpace(body)
	if (strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://")) &&
		!strings.ContainsAny(trimmed, " \t\n") {
		return KindLink
	}
	return KindText
}

// IsValidReaction reports whether kind names one of the reaction counters.
func IsValidReaction(kind string) bool {
	for _, k := range ReactionKinds {
		if k == kind {
			return true
		}
	}
	return false
}
