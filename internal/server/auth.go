package server

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

const editKeyHeader = "X-Edit-Key"

// EditKey is the shared secret required on every write. It is either a
// plain value, a bcrypt hash, or both. With neither configured every
// write is refused.
type EditKey struct {
	plain string
	hash  []byte
}

func NewEditKey(plain, bcryptHash string) EditKey {
	k := EditKey{plain: plain}
	if bcryptHash != "" {
		k.hash = []byte(bcryptHash)
	}
	return k
}

func (k EditKey) Configured() bool { return k.plain != "" || len(k.hash) > 0 }

func (k EditKey) Verify(given string) bool {
	if given == "" {
		return false
	}
	if k.plain != "" && subtle.ConstantTimeCompare([]byte(given), []byte(k.plain)) == 1 {
		return true
	}
	if len(k.hash) > 0 && bcrypt.CompareHashAndPassword(k.hash, []byte(given)) == nil {
		return true
	}
	return false
}
