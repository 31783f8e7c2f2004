package infra

import (
	"errors"
	"strings"
	"testing"
)

func TestExtractMarker(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantMarker string
		wantErr    bool
	}{
		{
			name:       "valid marker",
			query:      "--sql 0b0d3f5e-8a57-4d0f-9a57-3c5f3b7f6c11\nselect 1;",
			wantMarker: "0b0d3f5e-8a57-4d0f-9a57-3c5f3b7f6c11",
		},
		{
			name:       "leading whitespace",
			query:      "\n   --sql 0b0d3f5e-8a57-4d0f-9a57-3c5f3b7f6c11\nselect 1;\n",
			wantMarker: "0b0d3f5e-8a57-4d0f-9a57-3c5f3b7f6c11",
		},
		{
			name:    "missing marker",
			query:   "select 1;",
			wantErr: true,
		},
		{
			name:    "uppercase uuid rejected",
			query:   "--sql 0B0D3F5E-8A57-4D0F-9A57-3C5F3B7F6C11\nselect 1;",
			wantErr: true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			marker, body, err := extractMarker(tc.query)
			if tc.wantErr {
				if !errors.Is(err, ErrMissingMarker) {
					t.Fatalf("extractMarker() error = %v, want ErrMissingMarker", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("extractMarker() unexpected error: %v", err)
			}
			if marker != tc.wantMarker {
				t.Fatalf("marker = %q, want %q", marker, tc.wantMarker)
			}
			if strings.Contains(body, "--sql") || !strings.Contains(body, "select 1") {
				t.Fatalf("body = %q, want statement without marker", body)
			}
		})
	}
}
