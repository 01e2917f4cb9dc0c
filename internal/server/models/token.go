package models

// TokenPayload is the minimal claim set embedded into both the access and
// the refresh token. It is transient and never persisted.
type TokenPayload struct {
	AccountID string
	Email     string
}

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
