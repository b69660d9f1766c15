package models

// Session holds the tokens issued by the backend at login. ExpiresAt is unix
// seconds as reported by the backend; the gateway never treats it as a local
// validity check, the backend is the authority on token expiry.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
}
