package util

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"

	"github.com/google/uuid"
)

// Md5ThenHex is a quick hasher
func Md5ThenHex(value []byte) string {
	hasher := md5.New()
	hasher.Write(value)
	return hex.EncodeToString(hasher.Sum(nil))
}

// HashUUID folds the JSON form of value into a name-style UUID, so equal
// tables or headers always print the same identifier.
func HashUUID(value any) string {
	raw, err := json.Marshal(value)
	if err != nil {
		return ""
	}
	id := uuid.NewMD5(uuid.NameSpaceOID, raw)
	return id.String()
}

// NewSessionID tags one encode or decode session in the logs.
func NewSessionID() string {
	return uuid.NewString()
}
