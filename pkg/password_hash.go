package pkg

import "golang.org/x/crypto/bcrypt"

// HashSecret hashes an API token (or any other shared secret) with bcrypt.
// A cost below bcrypt.MinCost falls back to bcrypt.DefaultCost.
func HashSecret(secret string, cost int) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	return BytesToString(bytes), err
}

func CheckSecretHash(secret, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}
