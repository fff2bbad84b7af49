package auth

import "golang.org/x/crypto/bcrypt"

// DefaultHashCost is the bcrypt work factor used for new password digests.
// Matches bcrypt's own default; raise it as hardware improves.
const DefaultHashCost = bcrypt.DefaultCost

// HashPassword produces a salted one-way digest of plaintext. bcrypt embeds
// the per-call salt and cost in the digest, so nothing is stored separately.
func HashPassword(plaintext string, cost int) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// CheckPassword reports whether plaintext matches digest. The comparison is
// constant time; a mismatch or an unparsable digest returns false, never an
// error.
func CheckPassword(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
