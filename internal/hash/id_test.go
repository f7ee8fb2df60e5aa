package hash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFingerprint(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want uint64
	}{
		{"nil", nil, 0xef46db3751d8e999},
		{"empty", []byte{}, 0xef46db3751d8e999},
		{"short", []byte("test"), 0x4fdcca5ddb678139},
		{"long", []byte("this is a longer test string to hash"), 0x69275f7f7ee59dbd},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Fingerprint(tt.data))
		})
	}
}

func TestFingerprintSensitivity(t *testing.T) {
	require := require.New(t)

	base := []byte("nearest neighbor dataset bytes")
	flipped := append([]byte(nil), base...)
	flipped[0] ^= 1

	require.NotEqual(Fingerprint(base), Fingerprint(flipped))
	require.Equal(Fingerprint(base), Fingerprint(append([]byte(nil), base...)))
}
