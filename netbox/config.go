package netbox

import "time"

const DefaultTimeout = 30 * time.Second

type NetboxConfig struct {
	API struct {
		URL   string
		Token Secret
	}
	Timeout time.Duration `yaml:"timeout"`
}

// Secret keeps the API token out of log lines and dumps.
type Secret string

func (s Secret) String() string   { return "[REDACTED]" }
func (s Secret) GoString() string { return "[REDACTED]" }

// Value returns the token itself.
func (s Secret) Value() string { return string(s) }
