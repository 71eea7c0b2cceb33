package entity

// TokenPair is the result of every successful issuance.
// Neither token is persisted; only a hash of RefreshToken is kept on the user.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
