package ratelimit

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{
			name:    "no headers",
			headers: map[string]string{},
			want:    UnknownIdentifier,
		},
		{
			name:    "x-forwarded-for single entry",
			headers: map[string]string{"X-Forwarded-For": "203.0.113.7"},
			want:    "203.0.113.7",
		},
		{
			name:    "x-forwarded-for takes first entry",
			headers: map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1, 172.16.0.1"},
			want:    "203.0.113.7",
		},
		{
			name: "x-forwarded-for wins over others",
			headers: map[string]string{
				"X-Forwarded-For":  "203.0.113.7",
				"X-Real-IP":        "198.51.100.2",
				"CF-Connecting-IP": "192.0.2.3",
			},
			want: "203.0.113.7",
		},
		{
			name: "x-real-ip when no forwarded-for",
			headers: map[string]string{
				"X-Real-IP":        "198.51.100.2",
				"CF-Connecting-IP": "192.0.2.3",
			},
			want: "198.51.100.2",
		},
		{
			name:    "cf-connecting-ip last",
			headers: map[string]string{"CF-Connecting-IP": "192.0.2.3"},
			want:    "192.0.2.3",
		},
		{
			name: "blank forwarded-for entry falls through",
			headers: map[string]string{
				"X-Forwarded-For": " , 10.0.0.1",
				"X-Real-IP":       "198.51.100.2",
			},
			want: "198.51.100.2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			for k, v := range tt.headers {
				h.Set(k, v)
			}
			assert.Equal(t, tt.want, ClientIdentifier(h))
		})
	}
}
