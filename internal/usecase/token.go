package usecase

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"

	"github.com/google/uuid"
)

const (
	userIDPrefix    = "USER-"
	programIDPrefix = "PROG-"
)

// generateToken returns 32 random bytes, hex encoded.
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func newUserID() string {
	return userIDPrefix + uuid.NewString()
}

func newProgramID() string {
	return programIDPrefix + uuid.NewString()
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
