package utils

import "github.com/google/uuid"

const partyIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// PartyIDLength is the length of a generated party identifier
const PartyIDLength = 6

// NewPartyID returns a short base-36 token. Uniqueness is not checked.
func NewPartyID() string {
	// the first six bytes of a v4 UUID are all random
	b := uuid.New()
	id := make([]byte, PartyIDLength)
	for i := range id {
		id[i] = partyIDAlphabet[int(b[i])%len(partyIDAlphabet)]
	}
	return string(id)
}

// NewResponseID returns a store-assigned document identifier
func NewResponseID() string {
	return uuid.New().String()
}
