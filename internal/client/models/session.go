package models

// Session pairs the bearer token with the user it was issued for.
//
// A token without a user, or a user without a token, can be represented but
// is treated as not authenticated.
type Session struct {
	Token string
	User  *User
}

// Authenticated reports whether both token and user are present.
func (s Session) Authenticated() bool {
	return s.Token != "" && s.User != nil && (s.User.ID != "" || s.User.Username != "")
}

// Username returns the session user's name, or "" when there is no user.
func (s Session) Username() string {
	if s.User == nil {
		return ""
	}
	return s.User.Username
}
