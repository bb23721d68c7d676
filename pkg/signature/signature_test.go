package signature

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifyHMAC(t *testing.T) {
	payload := []byte(`{"id":"evt_1","live":false}`)
	sig := Sign("s3cret", payload)

	assert.True(t, VerifyHMAC("s3cret", payload, sig))
	assert.True(t, VerifyHMAC("s3cret", payload, "sha256="+sig))
	assert.False(t, VerifyHMAC("other", payload, sig))
	assert.False(t, VerifyHMAC("s3cret", []byte(`{"id":"evt_2"}`), sig))
	assert.False(t, VerifyHMAC("", payload, sig), "an unset secret never verifies")
	assert.False(t, VerifyHMAC("s3cret", payload, ""))
}
