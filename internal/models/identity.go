package models

// Identity is a verified caller as reported by the identity provider.
type Identity struct {
	TokenIdentifier string
	Email           string
	Name            string
	Picture         string
}
