package models

// Identity is the signed-in state supplied by the external identity provider.
// The core never reaches for a global session; callers pass this in.
type Identity struct {
	SignedIn bool   `json:"signedIn"`
	Email    string `json:"email"`
}

// Valid reports whether repository operations are permitted for this identity.
func (id Identity) Valid() bool {
	return id.SignedIn && id.Email != ""
}
