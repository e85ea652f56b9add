package content

import (
	"encoding/json"
	"time"
)

// User is a protocol identity as returned by the content API
type User struct {
	FID            int64  `json:"fid"`
	Username       string `json:"username"`
	DisplayName    string `json:"display_name"`
	PfpURL         string `json:"pfp_url"`
	Bio            string `json:"bio,omitempty"`
	FollowerCount  int64  `json:"follower_count"`
	FollowingCount int64  `json:"following_count"`
}

// Reactions holds aggregate reaction counts for a cast
type Reactions struct {
	LikesCount   int64 `json:"likes_count"`
	RecastsCount int64 `json:"recasts_count"`
}

// ReplyCount holds the reply counter for a cast
type ReplyCount struct {
	Count int64 `json:"count"`
}

// Cast is a single post. Hash is the stable identity; everything else is
// read-only to this client.
type Cast struct {
	Hash          string            `json:"hash"`
	ThreadHash    string            `json:"thread_hash,omitempty"`
	ParentHash    string            `json:"parent_hash,omitempty"`
	Author        User              `json:"author"`
	Text          string            `json:"text"`
	Timestamp     time.Time         `json:"timestamp"`
	Embeds        []json.RawMessage `json:"embeds,omitempty"`
	Reactions     *Reactions        `json:"reactions,omitempty"`
	Replies       *ReplyCount       `json:"replies,omitempty"`
	DirectReplies []Cast            `json:"direct_replies,omitempty"`
}

// Page is one page of a paginated feed. An empty NextCursor means the
// sequence is exhausted. The cursor is owned by the engine that requested
// it and is never persisted.
type Page struct {
	Casts      []Cast
	NextCursor string
}
