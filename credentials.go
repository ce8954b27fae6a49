package connpool

import (
	"strings"

	"github.com/lattice-db/connpool/poolerrors"
)

// Credentials bundles the backend username, password, and connection
// URL. The pool never inspects it directly; only whatever SessionFactory
// the caller of Initialize supplies does.
type Credentials interface {
	Username() string
	Password() string
	URL() string
}

const (
	keyCredentialUser     = "user"
	keyCredentialPassword = "password"
	keyCredentialURL      = "url"
)

// RawCredentials is an in-memory Credentials implementation for callers
// that already hold credentials, and for tests.
type RawCredentials struct {
	username string
	password string
	url      string
}

// NewRawCredentials builds a RawCredentials from already-known values.
func NewRawCredentials(username, password, url string) *RawCredentials {
	return &RawCredentials{username: username, password: password, url: url}
}

func (c *RawCredentials) Username() string { return c.username }
func (c *RawCredentials) Password() string { return c.password }
func (c *RawCredentials) URL() string      { return c.url }

// FileCredentials loads user/password/url from a key/value property
// file, matching PropertyFileConnectionCredentials.java's key list and
// missing-key policy.
type FileCredentials struct {
	username string
	password string
	url      string
}

// LoadFileCredentials reads Credentials from a property file at path.
func LoadFileCredentials(path string) (*FileCredentials, error) {
	const op = "LoadFileCredentials"
	props, err := loadProperties(path)
	if err != nil {
		return nil, poolerrors.Wrap(err, poolerrors.ConfigMissing, op)
	}
	return newFileCredentials(op, props)
}

// ParseFileCredentials builds FileCredentials from already-loaded
// property file contents.
func ParseFileCredentials(contents string) (*FileCredentials, error) {
	const op = "ParseFileCredentials"
	props, err := parseProperties(strings.NewReader(contents))
	if err != nil {
		return nil, poolerrors.Wrap(err, poolerrors.ConfigMissing, op)
	}
	return newFileCredentials(op, props)
}

func newFileCredentials(op string, props properties) (*FileCredentials, error) {
	user, err := props.get(op, keyCredentialUser)
	if err != nil {
		return nil, err
	}
	password, err := props.get(op, keyCredentialPassword)
	if err != nil {
		return nil, err
	}
	url, err := props.get(op, keyCredentialURL)
	if err != nil {
		return nil, err
	}
	return &FileCredentials{username: user, password: password, url: url}, nil
}

func (c *FileCredentials) Username() string { return c.username }
func (c *FileCredentials) Password() string { return c.password }
func (c *FileCredentials) URL() string      { return c.url }
