package types

// ExternalIdentity is the verified profile returned by a federated
// identity provider after a successful sign-in.
type ExternalIdentity struct {
	// Subject is the provider's stable identifier for the account.
	Subject string

	// Email is the account email, if the provider shared one.
	Email string

	// Name is the display name, if the provider shared one.
	Name string

	// Picture is the avatar URL, if the provider shared one.
	Picture string
}
