package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBotToken = "123456:test-bot-token"

func signedPayload(t *testing.T, fields map[string]string) map[string]interface{} {
	t.Helper()
	secret := InitDataSecret(testBotToken)
	hash := SignInitData(fields, secret)

	payload := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		payload[k] = v
	}
	payload["hash"] = hash
	return payload
}

func TestVerifyInitDataValid(t *testing.T) {
	secret := InitDataSecret(testBotToken)
	payload := signedPayload(t, map[string]string{
		"username":  "worker1",
		"auth_date": "1700000000",
		"query_id":  "AAE-test",
	})

	assert.True(t, VerifyInitData(payload, secret))
}

func TestVerifyInitDataOrderIndependent(t *testing.T) {
	secret := InitDataSecret(testBotToken)

	// The check string sorts keys, so the hash must not depend on the
	// order fields were signed in.
	a := SignInitData(map[string]string{"b": "2", "a": "1", "c": "3"}, secret)
	b := SignInitData(map[string]string{"c": "3", "a": "1", "b": "2"}, secret)
	require.Equal(t, a, b)

	payload := signedPayload(t, map[string]string{"c": "3", "a": "1", "b": "2"})
	assert.True(t, VerifyInitData(payload, secret))
}

func TestVerifyInitDataTamperedValue(t *testing.T) {
	secret := InitDataSecret(testBotToken)
	payload := signedPayload(t, map[string]string{
		"username": "worker1",
		"role":     "worker",
	})

	payload["role"] = "admin"
	assert.False(t, VerifyInitData(payload, secret))
}

func TestVerifyInitDataMissingHash(t *testing.T) {
	secret := InitDataSecret(testBotToken)
	payload := map[string]interface{}{
		"username": "worker1",
	}

	assert.False(t, VerifyInitData(payload, secret))
}

func TestVerifyInitDataNonStringValue(t *testing.T) {
	secret := InitDataSecret(testBotToken)
	payload := signedPayload(t, map[string]string{"username": "worker1"})
	payload["auth_date"] = 1700000000

	assert.False(t, VerifyInitData(payload, secret))
}

func TestVerifyInitDataWrongSecret(t *testing.T) {
	payload := signedPayload(t, map[string]string{"username": "worker1"})
	other := InitDataSecret("999999:another-token")

	assert.False(t, VerifyInitData(payload, other))
}
