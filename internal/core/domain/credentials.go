package domain

// Credentials is the token bundle returned by the identity provider on a
// successful login. It is handed to the caller and never stored.
type Credentials struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}
