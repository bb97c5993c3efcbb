package model

// CredentialPair is the transient value read from a form at capture time.
// It is built fresh per capture and never stored as-is.
type CredentialPair struct {
	Identifier string
	Secret     string
}
