// Package quirkconfig loads a wire.Options from a TOML file, letting an
// operator pin the quirk relaxations and extension feature flags a
// deployment needs without recompiling.
package quirkconfig

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/coalooball/imap-codec/wire"
)

// Config is the on-disk shape of a wire.Options file.
type Config struct {
	Quirks     QuirksConfig     `toml:"quirks"`
	Extensions ExtensionsConfig `toml:"extensions"`

	// MaxLiteralSize overrides wire.DefaultMaxLiteralSize. Zero means
	// "use the default".
	MaxLiteralSize int64 `toml:"max_literal_size"`
}

// QuirksConfig mirrors the boolean quirk fields of wire.Options.
type QuirksConfig struct {
	CRLFRelaxed    bool `toml:"crlf_relaxed"`
	RectifyNumbers bool `toml:"rectify_numbers"`
	MissingText    bool `toml:"missing_text"`
}

// ExtensionsConfig mirrors the extension feature flags of wire.Options.
type ExtensionsConfig struct {
	StartTLS        bool `toml:"starttls"`
	CondstoreQresync bool `toml:"condstore_qresync"`
	LoginReferrals  bool `toml:"login_referrals"`
	MailboxReferrals bool `toml:"mailbox_referrals"`
}

// Load reads a TOML file at path and returns the wire.Options it describes.
func Load(path string) (wire.Options, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return wire.Options{}, fmt.Errorf("quirkconfig: decode %s: %w", path, err)
	}
	return cfg.Options(), nil
}

// Options converts the decoded config into a wire.Options. An unset
// MaxLiteralSize is passed through as zero, which wire.Options treats as
// wire.DefaultMaxLiteralSize.
func (c Config) Options() wire.Options {
	return wire.Options{
		QuirkCRLFRelaxed:    c.Quirks.CRLFRelaxed,
		QuirkRectifyNumbers: c.Quirks.RectifyNumbers,
		QuirkMissingText:    c.Quirks.MissingText,

		StartTLS:            c.Extensions.StartTLS,
		ExtCondstoreQresync: c.Extensions.CondstoreQresync,
		ExtLoginReferrals:   c.Extensions.LoginReferrals,
		ExtMailboxReferrals: c.Extensions.MailboxReferrals,

		MaxLiteralSize: c.MaxLiteralSize,
	}
}

// FromOptions converts a wire.Options back into its TOML-serializable
// form, for writing a config file that matches a running configuration.
func FromOptions(o wire.Options) Config {
	return Config{
		Quirks: QuirksConfig{
			CRLFRelaxed:    o.QuirkCRLFRelaxed,
			RectifyNumbers: o.QuirkRectifyNumbers,
			MissingText:    o.QuirkMissingText,
		},
		Extensions: ExtensionsConfig{
			StartTLS:         o.StartTLS,
			CondstoreQresync: o.ExtCondstoreQresync,
			LoginReferrals:   o.ExtLoginReferrals,
			MailboxReferrals: o.ExtMailboxReferrals,
		},
		MaxLiteralSize: o.MaxLiteralSize,
	}
}
