package models

import "crypto/rand"

// nanoidAlphabet is nanoid.generate()'s default alphabet: 64 URL-safe
// characters, so the shape of an ID minted here matches what the
// "nanoid:<id>" convention in WithNanoidPrefix already assumes.
const nanoidAlphabet = "_-0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// nanoidLength is nanoid's default size. 21 characters drawn from a
// 64-symbol alphabet gives a collision probability comparable to a v4
// UUID at little more than half the length.
const nanoidLength = 21

// NewID mints an opaque, collision-resistant 21-character identifier, used
// for every message, event, agent, and task ID in this runtime.
func NewID() string {
	buf := make([]byte, nanoidLength)
	if _, err := rand.Read(buf); err != nil {
		panic("models: crypto/rand unavailable: " + err.Error())
	}
	id := make([]byte, nanoidLength)
	for i, v := range buf {
		id[i] = nanoidAlphabet[v&0x3f]
	}
	return string(id)
}
