package auth

import "golang.org/x/crypto/bcrypt"

// dummyHash is compared against when the email is unknown so that lookup
// failures and password mismatches take the same amount of work.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("placeholder-password"), bcrypt.MinCost)

// HashPassword hashes a plaintext password with configured cost.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

// CompareDummy burns a bcrypt comparison without revealing anything. Used on
// the unknown-email path to keep credential errors non-enumerable.
func CompareDummy(plain string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(plain))
}
