package dto

type RefreshInput struct {
	// RefreshToken carries the body-delivered token. Deprecated: cookie
	// delivery is the supported path; the body field is only read when
	// ALLOW_REFRESH_TOKEN_IN_BODY is set.
	RefreshToken string `json:"refreshToken"`
	IPAddress    string `json:"-"`
	UserAgent    string `json:"-"`
}
