package content

import "encoding/json"

// The content API wraps its payloads differently per endpoint: some return
// {"casts": [...]}, some {"result": {"casts": [...]}}, some a bare array,
// some {"result": [...]}. The decoders below try each shape in a fixed
// priority order and fail closed to an empty result rather than erroring.

type envelope struct {
	Casts  []Cast          `json:"casts"`
	Result json.RawMessage `json:"result"`
	Next   *nextCursor     `json:"next"`
	Cursor string          `json:"cursor"`
}

type nextCursor struct {
	Cursor string `json:"cursor"`
}

// ExtractPage decodes a feed response into one ordered page of casts plus
// the continuation cursor, whichever envelope shape the endpoint used.
func ExtractPage(raw json.RawMessage) Page {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		// Bare array responses do not decode as an object
		var casts []Cast
		if err := json.Unmarshal(raw, &casts); err == nil {
			return Page{Casts: casts}
		}
		return Page{}
	}

	page := Page{NextCursor: extractCursor(&env)}

	if env.Casts != nil {
		page.Casts = env.Casts
		return page
	}
	if len(env.Result) > 0 {
		var inner struct {
			Casts []Cast `json:"casts"`
		}
		if err := json.Unmarshal(env.Result, &inner); err == nil && inner.Casts != nil {
			page.Casts = inner.Casts
			return page
		}
		var casts []Cast
		if err := json.Unmarshal(env.Result, &casts); err == nil {
			page.Casts = casts
			return page
		}
	}

	page.Casts = []Cast{}
	return page
}

// ExtractCast decodes a single-cast response. The cast may live under
// "cast", "result.cast", "result", or be the whole body. Returns nil when
// no shape yields a cast with a hash.
func ExtractCast(raw json.RawMessage) *Cast {
	var env struct {
		Cast   *Cast           `json:"cast"`
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil
	}

	if env.Cast != nil && env.Cast.Hash != "" {
		return env.Cast
	}
	if len(env.Result) > 0 {
		var inner struct {
			Cast *Cast `json:"cast"`
		}
		if err := json.Unmarshal(env.Result, &inner); err == nil && inner.Cast != nil && inner.Cast.Hash != "" {
			return inner.Cast
		}
		var cast Cast
		if err := json.Unmarshal(env.Result, &cast); err == nil && cast.Hash != "" {
			return &cast
		}
	}

	var cast Cast
	if err := json.Unmarshal(raw, &cast); err == nil && cast.Hash != "" {
		return &cast
	}
	return nil
}

// ExtractReplies decodes a conversation response into a page of direct
// replies. Shapes are tried in priority order: conversation.cast.direct_replies,
// conversation.direct_replies, then top-level direct_replies.
func ExtractReplies(raw json.RawMessage) Page {
	var env struct {
		Conversation *struct {
			Cast *struct {
				DirectReplies []Cast `json:"direct_replies"`
			} `json:"cast"`
			DirectReplies []Cast `json:"direct_replies"`
		} `json:"conversation"`
		DirectReplies []Cast      `json:"direct_replies"`
		Next          *nextCursor `json:"next"`
		Cursor        string      `json:"cursor"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return Page{}
	}

	page := Page{Casts: []Cast{}}
	if env.Next != nil && env.Next.Cursor != "" {
		page.NextCursor = env.Next.Cursor
	} else {
		page.NextCursor = env.Cursor
	}

	switch {
	case env.Conversation != nil && env.Conversation.Cast != nil && env.Conversation.Cast.DirectReplies != nil:
		page.Casts = env.Conversation.Cast.DirectReplies
	case env.Conversation != nil && env.Conversation.DirectReplies != nil:
		page.Casts = env.Conversation.DirectReplies
	case env.DirectReplies != nil:
		page.Casts = env.DirectReplies
	}
	return page
}

// ExtractUser decodes a user-lookup response, trying "user", "result.user",
// then the whole body. Returns nil when no shape yields a user with a fid.
func ExtractUser(raw json.RawMessage) *User {
	var env struct {
		User   *User `json:"user"`
		Result *struct {
			User *User `json:"user"`
		} `json:"result"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil
	}

	if env.User != nil && env.User.FID != 0 {
		return env.User
	}
	if env.Result != nil && env.Result.User != nil && env.Result.User.FID != 0 {
		return env.Result.User
	}

	var user User
	if err := json.Unmarshal(raw, &user); err == nil && user.FID != 0 {
		return &user
	}
	return nil
}

func extractCursor(env *envelope) string {
	if env.Next != nil && env.Next.Cursor != "" {
		return env.Next.Cursor
	}
	return env.Cursor
}
