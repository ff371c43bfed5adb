package pipeline

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/common"
)

// InputHash computes RequestLog.input_hash = SHA-256(source || ":" || content).
func InputHash(source common.Source, content string) string {
	sum := sha256.Sum256([]byte(string(source) + ":" + content))
	return hex.EncodeToString(sum[:])
}
