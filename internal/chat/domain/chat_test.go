package domain_test

import (
	"testing"

	"github.com/boddenberg/sarathi-client-go/internal/chat/domain"
)

func TestVoiceContent(t *testing.T) {
	text := "petrol 300 rupees"
	empty := ""
	cases := []struct {
		in   *string
		want string
	}{
		{&text, `🎤 "petrol 300 rupees"`},
		{&empty, `🎤 "Voice Message"`},
		{nil, `🎤 "Voice Message"`},
	}
	for _, tc := range cases {
		if got := domain.VoiceContent(tc.in); got != tc.want {
			t.Errorf("expected %s, got %s", tc.want, got)
		}
	}
}
