package types

// User is the profile returned by the auth and profile endpoints.
type User struct {
	ID          uint   `json:"id"`
	Login       string `json:"login"`
	IsModerator bool   `json:"is_moderator"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// Credentials identify a user on login and register.
type Credentials struct {
	Login       string `json:"login"`
	Password    string `json:"password"`
	IsModerator bool   `json:"is_moderator,omitempty"`
}

// AuthResponse is returned by login, register, and refresh.
type AuthResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	User         User   `json:"user"`
}

// ProfilePatch updates the current user's profile. Empty fields are left
// unchanged.
type ProfilePatch struct {
	Login    string `json:"login,omitempty"`
	Password string `json:"password,omitempty"`
}
