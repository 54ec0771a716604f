package tether

import "github.com/google/uuid"

// NewID returns a random source id of the form "tip-<uuid>".
func NewID() string {
	return "tip-" + uuid.NewString()
}
