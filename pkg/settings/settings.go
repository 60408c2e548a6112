// Package settings loads tool configuration from a TOML file. Settings
// are consumed by the CLI; the structure model never reads them. A
// missing or unreadable file yields pure defaults so the tool always
// starts in a usable state.
package settings

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/jiapeiLu/menubuilder/pkg/errors"
)

// Settings is the user configuration. Keys absent from the file keep
// their default values.
type Settings struct {
	// Document is the menu document loaded when none is named.
	Document string `toml:"document"`
	// LogLevel is the CLI log level: debug, info, warn, or error.
	LogLevel string `toml:"log_level"`
	// Language is the UI locale tag, such as en_us or zh_tw.
	Language string `toml:"language"`
	// DocumentsDir overrides where menu documents are stored. Empty
	// means the standard config directory.
	DocumentsDir string `toml:"documents_dir"`
}

// Defaults returns the settings used when no file exists.
func Defaults() Settings {
	return Settings{
		Document: "TempBar",
		LogLevel: "error",
		Language: "en_us",
	}
}

// DefaultPath returns the standard settings location,
// ~/.config/menubuilder/settings.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "resolve home directory")
	}
	return filepath.Join(home, ".config", "menubuilder", "settings.toml"), nil
}

// Load reads settings from path, overlaying file values on the defaults.
// A missing file is not an error. A malformed file returns the defaults
// together with the parse error, so callers can warn and keep going.
func Load(path string) (Settings, error) {
	s := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, errors.Wrap(errors.ErrCodeInternal, err, "read settings %s", path)
	}
	if err := toml.Unmarshal(data, &s); err != nil {
		return Defaults(), errors.Wrap(errors.ErrCodeInvalidDocument, err, "malformed settings %s", path)
	}
	return s, nil
}

// Save writes settings to path, creating parent directories as needed.
func Save(path string, s Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create settings dir")
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(s); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode settings")
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write settings %s", path)
	}
	return nil
}
