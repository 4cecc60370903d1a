package security

import "golang.org/x/crypto/bcrypt"

// bcrypt cost 12 keeps credential hashing deliberately slow; reset-token
// secrets are already high entropy so they use a lighter cost to keep the
// lookup scan tolerable.
const (
	passwordCost = 12
	secretCost   = 10
)

func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), passwordCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// HashSecret hashes a random secret such as a password-reset token.
func HashSecret(secret string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(secret), secretCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func CheckSecret(hash, secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}
