package entity

type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// User is what the identity provider reports about a user name.
type User struct {
	UserName string `json:"user_name"`
	Roles    []Role `json:"roles"`
}

func (u *User) HasAnyRole(roles ...Role) bool {
	if u == nil {
		return false
	}
	for _, have := range u.Roles {
		for _, want := range roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// DeletedUserDisplayName is shown in place of an author that no longer exists.
const DeletedUserDisplayName = "[deleted]"
