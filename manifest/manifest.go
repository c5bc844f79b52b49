// Package manifest loads host-application plugin manifests: small config
// files naming the namespaces a plugin manager should scan.
package manifest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// maxManifestSize limits manifest file size to prevent memory exhaustion (256KB).
const maxManifestSize int64 = 256 * 1024

// Sentinel errors for programmatic error handling.
var (
	// ErrUnsupportedFormat indicates a manifest file extension that is
	// neither YAML nor TOML.
	ErrUnsupportedFormat = errors.New("unsupported manifest format")
	// ErrNoNamespaces indicates a manifest that names no namespaces.
	ErrNoNamespaces = errors.New("manifest names no namespaces")
)

// Manifest names the plugin namespaces a host application wants scanned, in
// scan order.
type Manifest struct {
	Namespaces []string `yaml:"namespaces" toml:"namespaces"`
}

// Load reads a manifest from path. The format is chosen by extension:
// .yaml/.yml or .toml.
func Load(path string) (*Manifest, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	if info.Size() > maxManifestSize {
		return nil, fmt.Errorf("manifest %s exceeds maximum size (%d bytes)", path, maxManifestSize)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, maxManifestSize))
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	m := &Manifest{}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, m); err != nil {
			return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, m); err != nil {
			return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return m, nil
}

// Validate checks that the manifest is usable.
func (m *Manifest) Validate() error {
	if len(m.Namespaces) == 0 {
		return ErrNoNamespaces
	}
	for _, ns := range m.Namespaces {
		if ns == "" {
			return errors.New("manifest contains an empty namespace")
		}
	}
	return nil
}
