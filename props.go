package connpool

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/lattice-db/connpool/poolerrors"
)

// properties is a flat key/value map loaded from a `key = value` file,
// one entry per line, `#` introducing a comment to end of line. It
// mirrors java.util.Properties loading closely enough for the key lists
// PropertyFileConnectionPoolConfiguration.java and
// PropertyFileConnectionCredentials.java pin.
type properties map[string]string

// loadProperties reads a property file from path.
func loadProperties(path string) (properties, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseProperties(f)
}

func parseProperties(r io.Reader) (properties, error) {
	props := make(properties)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		eq := strings.IndexByte(line, '=')
		if eq < 0 {
			continue
		}
		key := strings.TrimSpace(line[:eq])
		value := strings.TrimSpace(line[eq+1:])
		if key == "" {
			continue
		}
		props[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return props, nil
}

// get returns the raw value for key, or a ConfigMissing error naming op
// and key if the key is absent. An empty-but-present value is accepted:
// only absence is fatal.
func (p properties) get(op, key string) (string, error) {
	v, ok := p[key]
	if !ok {
		return "", poolerrors.NewConfigMissingf(op, "missing required key %q", key)
	}
	return v, nil
}
