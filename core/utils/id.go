package utils

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const idAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// GenerateID returns a short random document ID for newly created events.
func GenerateID() string {
	id, err := gonanoid.Generate(idAlphabet, 20)
	if err != nil {
		return ""
	}
	return id
}
