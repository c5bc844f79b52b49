package ezplugins

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
var (
	// ErrAlreadyMarked indicates a type was marked as a plugin more than once.
	ErrAlreadyMarked = errors.New("type already marked as a plugin")
	// ErrNotMarked indicates metadata was applied before plugin marking.
	ErrNotMarked = errors.New("metadata applied before plugin marking")
	// ErrUnknownNamespace indicates a scan root with no registered plugins
	// at or beneath it.
	ErrUnknownNamespace = errors.New("namespace has no registered plugins")
)

// ConfigurationError indicates misuse of the marking mechanism, such as
// marking a type twice or applying metadata to an unmarked type. It is
// always fatal at definition time.
type ConfigurationError struct {
	// Target is the type, method, or namespace the marking call applied to.
	Target string
	Err    error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("plugin configuration %s: %v", e.Target, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// PluginLoadError indicates an unknown namespace or a plugin constructor
// failure during the manager's scan. Construction is all-or-nothing: unless
// the manager was built with WithIgnoreLoadErrors, no manager is produced.
type PluginLoadError struct {
	// Namespace is the namespace being scanned when the failure occurred.
	Namespace string
	// FQN is the failing plugin's would-be fully qualified name. It is empty
	// when the namespace itself could not be resolved.
	FQN string
	Err error
}

func (e *PluginLoadError) Error() string {
	if e.FQN != "" {
		return fmt.Sprintf("loading plugin %s: %v", e.FQN, e.Err)
	}
	return fmt.Sprintf("loading namespace %s: %v", e.Namespace, e.Err)
}

func (e *PluginLoadError) Unwrap() error {
	return e.Err
}

// IsConfigurationError reports whether err is a ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// IsPluginLoadError reports whether err is a PluginLoadError.
func IsPluginLoadError(err error) bool {
	var le *PluginLoadError
	return errors.As(err, &le)
}
