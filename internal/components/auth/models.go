package auth

// RoleAdmin is the role the API assigns to administrator accounts.
const RoleAdmin = "admin"

type (
	User struct {
		ID    string `json:"id,omitempty"`
		Name  string `json:"name,omitempty"`
		Email string `json:"email"`
		Role  string `json:"role,omitempty"`
	}

	Credentials struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	// Session is the normalized login/register result: the bearer token
	// plus the profile the server returned with it.
	Session struct {
		Token string
		User  User
	}

	// authPayload accepts both response shapes the API has shipped:
	// a flat {token,user} object and a nested {data:{token,user}} one.
	authPayload struct {
		Token string `json:"token"`
		User  User   `json:"user"`
		Data  *struct {
			Token string `json:"token"`
			User  User   `json:"user"`
		} `json:"data"`
	}
)

// session normalizes the polymorphic payload into a single Session record.
func (p authPayload) session() (*Session, bool) {
	switch {
	case p.Token != "":
		return &Session{Token: p.Token, User: p.User}, true
	case p.Data != nil && p.Data.Token != "":
		return &Session{Token: p.Data.Token, User: p.Data.User}, true
	}
	return nil, false
}
