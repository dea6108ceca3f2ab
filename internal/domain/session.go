package domain

// Session is the record persisted after a successful magic-link
// verification. The token is opaque; it is minted and validated by the
// remote endpoint. ExpiresAt is informational only — expiry is enforced
// remotely on each authenticated call, never locally.
type Session struct {
	Token         string `json:"token"`
	Email         string `json:"email"`
	Name          string `json:"name,omitempty"`
	DiscordHandle string `json:"discord_handle,omitempty"`
	ExpiresAt     int64  `json:"expires_at,omitempty"`
}

// Active reports whether the session carries a token. An empty-field
// session is the "not logged in" value.
func (s Session) Active() bool { return s.Token != "" }

// Prefs holds the optional identity fields a visitor can enter before any
// session exists. They ride along on the vote submission.
type Prefs struct {
	Name          string `json:"name,omitempty"`
	DiscordHandle string `json:"discord_handle,omitempty"`
}
