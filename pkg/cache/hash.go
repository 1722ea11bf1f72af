package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// hashKey builds an artifact key: the kind as a readable prefix, then a
// SHA-256 over the document hash and the JSON form of the options that
// shape the artifact. The full 64-character digest is kept so distinct
// documents can never collide.
func hashKey(kind, docHash string, opts any) string {
	encoded, _ := json.Marshal(opts)
	sum := sha256.Sum256(append([]byte(docHash+"|"), encoded...))
	return kind + ":" + hex.EncodeToString(sum[:])
}

// Hash computes the SHA-256 hex digest of data. Callers use it to derive
// the document hash that anchors every artifact key.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
