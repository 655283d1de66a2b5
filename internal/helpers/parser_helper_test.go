package helpers

import (
	"testing"

	"github.com/mreyesc/parkeo/internal/apperr"
	"github.com/stretchr/testify/assert"
)

func TestNormalizePlate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"abcd12", "ABCD12"},
		{" ab-cd 12 ", "ABCD12"},
		{"AB.CD.12", "ABCD12"},
		{"hjkl99", "HJKL99"},
	}

	for _, tc := range cases {
		got, err := NormalizePlate(tc.in)
		assert.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func TestNormalizePlateRejectsInvalid(t *testing.T) {
	invalid := []string{"", "ab", "abc", "abcdefghijk", "ab_cd12", "ab#cd"}

	for _, in := range invalid {
		_, err := NormalizePlate(in)
		assert.Error(t, err, in)
		assert.True(t, apperr.Is(err, apperr.KindValidation), in)
	}
}
