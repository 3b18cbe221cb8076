package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Mini-app handshake verification. The chat platform signs the
// key-value payload it hands to the mini app; the signature secret is
// derived from the bot token under a fixed domain-separation label.

const initDataLabel = "WebAppData"

// InitDataSecret derives the HMAC key for handshake verification:
// SHA256(label || hex(SHA256(botToken))).
func InitDataSecret(botToken string) []byte {
	tokenHash := sha256.Sum256([]byte(botToken))
	tokenHashHex := hex.EncodeToString(tokenHash[:])
	secret := sha256.Sum256([]byte(initDataLabel + tokenHashHex))
	return secret[:]
}

// VerifyInitData checks the signed handshake payload against the
// derived secret. The payload must carry a "hash" field; the check
// string is the remaining keys sorted lexicographically and joined as
// "key=value" lines. Any malformed input (missing hash, non-string
// value) yields false, never an error.
func VerifyInitData(payload map[string]interface{}, secret []byte) bool {
	rawHash, ok := payload["hash"]
	if !ok {
		return false
	}
	suppliedHash, ok := rawHash.(string)
	if !ok {
		return false
	}

	keys := make([]string, 0, len(payload))
	for k := range payload {
		if k == "hash" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		v, ok := payload[k].(string)
		if !ok {
			return false
		}
		lines = append(lines, fmt.Sprintf("%s=%s", k, v))
	}
	checkString := strings.Join(lines, "\n")

	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(checkString))
	computed := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(computed), []byte(suppliedHash))
}

// SignInitData computes the payload hash the way the chat platform
// does. Used by tests and local tooling.
func SignInitData(payload map[string]string, secret []byte) string {
	keys := make([]string, 0, len(payload))
	for k := range payload {
		if k == "hash" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s=%s", k, payload[k]))
	}

	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(strings.Join(lines, "\n")))
	return hex.EncodeToString(mac.Sum(nil))
}
