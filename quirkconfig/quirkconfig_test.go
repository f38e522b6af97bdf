package quirkconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/coalooball/imap-codec/wire"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "quirkconfig-*.toml")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	f.Close()
	return f.Name()
}

func TestLoad(t *testing.T) {
	validTOML := `
max_literal_size = 1048576

[quirks]
crlf_relaxed = true
rectify_numbers = true
missing_text = false

[extensions]
starttls = true
condstore_qresync = true
`

	tests := []struct {
		name    string
		content string
		path    string // if set, use this path instead of a temp file
		wantErr bool
		check   func(t *testing.T, opts wire.Options)
	}{
		{
			name:    "valid config",
			content: validTOML,
			check: func(t *testing.T, opts wire.Options) {
				if !opts.QuirkCRLFRelaxed {
					t.Error("QuirkCRLFRelaxed should be true")
				}
				if !opts.QuirkRectifyNumbers {
					t.Error("QuirkRectifyNumbers should be true")
				}
				if opts.QuirkMissingText {
					t.Error("QuirkMissingText should be false")
				}
				if !opts.StartTLS {
					t.Error("StartTLS should be true")
				}
				if !opts.ExtCondstoreQresync {
					t.Error("ExtCondstoreQresync should be true")
				}
				if opts.ExtLoginReferrals {
					t.Error("ExtLoginReferrals should be false")
				}
				if opts.MaxLiteralSize != 1048576 {
					t.Errorf("MaxLiteralSize = %d, want 1048576", opts.MaxLiteralSize)
				}
			},
		},
		{
			name:    "empty config uses zero values",
			content: "",
			check: func(t *testing.T, opts wire.Options) {
				if opts.QuirkCRLFRelaxed || opts.QuirkRectifyNumbers || opts.QuirkMissingText {
					t.Error("empty config should decode to all quirks false")
				}
				if opts.MaxLiteralSize != 0 {
					t.Errorf("MaxLiteralSize = %d, want 0", opts.MaxLiteralSize)
				}
			},
		},
		{
			name:    "file not found",
			path:    filepath.Join(t.TempDir(), "nonexistent.toml"),
			wantErr: true,
		},
		{
			name:    "invalid TOML syntax",
			content: `[quirks\ncrlf_relaxed = this is not valid toml!!!`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.path
			if path == "" {
				path = writeTemp(t, tt.content)
			}
			opts, err := Load(path)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if tt.check != nil {
				tt.check(t, opts)
			}
		})
	}
}

func TestFromOptionsRoundTrip(t *testing.T) {
	want := wire.Options{
		QuirkCRLFRelaxed:    true,
		QuirkRectifyNumbers: true,
		QuirkMissingText:    true,
		StartTLS:            true,
		ExtCondstoreQresync: true,
		ExtLoginReferrals:   true,
		ExtMailboxReferrals: true,
		MaxLiteralSize:      4096,
	}
	got := FromOptions(want).Options()
	if got != want {
		t.Errorf("FromOptions(want).Options() = %+v, want %+v", got, want)
	}
}
