package domain

// LinkedAccounts records which sign-in methods the demo user has attached.
type LinkedAccounts struct {
	Google bool `json:"google"`
	Phone  bool `json:"phone"`
}

// UserProfile is the mocked identity carried by the preference store.
// There is no backend behind it; a real identity provider would own it.
type UserProfile struct {
	Role           UserRole
	Authenticated  bool
	Name           string
	LinkedAccounts LinkedAccounts
}

// DefaultUserProfile is the anonymous villager a fresh session starts with.
func DefaultUserProfile() UserProfile {
	return UserProfile{Role: RoleVillager}
}
