// Package launch owns the files an instance needs to start: the
// human-editable launch settings (mcenv.toml) and the license acceptance
// file. Settings are written once at install time and read back at every
// launch, so user edits between runs take effect.
package launch

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/mcenv/mcenv/internal/fileutil"
)

const (
	// FileName is the launch settings file inside an instance directory.
	FileName = "mcenv.toml"

	// EULAName is the license acceptance file the server requires.
	EULAName = "eula.txt"

	// DefaultJarName is where the server artifact lands inside the
	// instance directory.
	DefaultJarName = "server.jar"
)

var header = []byte("# Launch settings for this instance, read at every launch.\n\n")

// Config is the content of mcenv.toml.
type Config struct {
	Java   JavaConfig   `toml:"java"`
	Server ServerConfig `toml:"server"`
}

// JavaConfig selects the runtime and its flags.
type JavaConfig struct {
	// Version is the required Java major version.
	Version int `toml:"version"`

	// Args are passed to the java binary before -jar.
	Args []string `toml:"args"`
}

// ServerConfig names the server artifact and its flags.
type ServerConfig struct {
	Jar string `toml:"jar"`

	// Args are passed to the server after the jar. nogui keeps the
	// vanilla server headless.
	Args []string `toml:"args"`
}

// Default returns the settings written at install time for a server
// requiring the given Java major version.
func Default(javaMajor int) Config {
	return Config{
		Java:   JavaConfig{Version: javaMajor, Args: []string{}},
		Server: ServerConfig{Jar: DefaultJarName, Args: []string{"nogui"}},
	}
}

func (c Config) validate() error {
	var errs []error
	if c.Java.Version <= 0 {
		errs = append(errs, errors.New("java version must be positive"))
	}
	if c.Server.Jar == "" {
		errs = append(errs, errors.New("server jar must not be empty"))
	}
	return errors.Join(errs...)
}

// CommandArgs renders the argument vector following the java binary:
// the java flags, then -jar and the server artifact, then the server flags.
func (c Config) CommandArgs() []string {
	args := make([]string, 0, len(c.Java.Args)+2+len(c.Server.Args))
	args = append(args, c.Java.Args...)
	args = append(args, "-jar", c.Server.Jar)
	args = append(args, c.Server.Args...)
	return args
}

// Path returns the settings file path for an instance directory.
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// JarPath returns where the server artifact is placed at install time.
// Launch reads the jar name from the settings file instead, so a renamed
// jar keeps working.
func JarPath(dir string) string {
	return filepath.Join(dir, DefaultJarName)
}

// Exists reports whether dir already carries a settings file.
func Exists(dir string) bool {
	_, err := os.Stat(Path(dir))
	return err == nil
}

// Load reads and validates the settings file of an instance directory.
func Load(dir string) (Config, error) {
	path := Path(dir)
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read launch settings: %w", err)
	}

	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := c.validate(); err != nil {
		return Config{}, fmt.Errorf("invalid %s: %w", path, err)
	}
	return c, nil
}

// Write persists c into dir atomically.
func Write(dir string, c Config) error {
	if err := c.validate(); err != nil {
		return fmt.Errorf("invalid launch settings: %w", err)
	}

	body, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode launch settings: %w", err)
	}

	data := append(bytes.Clone(header), body...)
	if err := fileutil.WriteFileAtomic(Path(dir), data, 0o644); err != nil {
		return fmt.Errorf("write launch settings: %w", err)
	}
	return nil
}

// WriteEULA materializes license acceptance in dir. The server refuses to
// start without it.
func WriteEULA(dir string) error {
	path := filepath.Join(dir, EULAName)
	if err := fileutil.WriteFileAtomic(path, []byte("eula=true\n"), 0o644); err != nil {
		return fmt.Errorf("write eula: %w", err)
	}
	return nil
}
