package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewReferralCode generates a short, human-shareable referral code:
// the optional prefix followed by the first ten hex characters of a
// random UUID, upper-cased. Uniqueness is enforced by the database;
// collisions at this length are rare enough that the caller simply
// retries the insert.
func NewReferralCode(prefix string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	code := strings.ToUpper(id[:10])
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if prefix == "" {
		return code
	}
	return prefix + "-" + code
}
