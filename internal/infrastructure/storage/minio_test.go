package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectURL(t *testing.T) {
	tests := []struct {
		base, bucket, key, want string
	}{
		{"http://localhost:9000", "tc", "avatars/u/a.png", "http://localhost:9000/tc/avatars/u/a.png"},
		{"https://cdn.example/", "tc", "avatars/u/a b.png", "https://cdn.example/tc/avatars/u/a%20b.png"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ObjectURL(tt.base, tt.bucket, tt.key))
	}
}
