package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"

	printers "github.com/sanix-darker/revfix/internal/printers"
)

const (
	ConfigDirPath  = ".config/revfix"
	ConfigFileName = "config.yml"
)

// Config contains the entire cli dependencies
type Config struct {
	Version        string
	Store          *Store
	ConfigDirPath  string
	ConfigFileName string
	Debug          bool

	// Fix run parameters; CLI flags override these.
	Provider      string
	Model         string
	RepoRoot      string
	MinConfidence string
	Batch         bool

	Printers printers.IPrinters

	// io writers useful for testing
	InReader  io.Reader
	OutWriter io.Writer
	ErrWriter io.Writer
}

// NewDefaultConfig creates a new default config, loading
// ~/.config/revfix/config.yml when it exists.
func NewDefaultConfig() Config {
	conf := Config{
		Printers:       printers.NewPrinters(),
		ConfigDirPath:  ConfigDirPath,
		ConfigFileName: ConfigFileName,
		Debug:          false,
		Provider:       "openai",
		RepoRoot:       ".",
		MinConfidence:  "medium",
		InReader:       os.Stdin,
		OutWriter:      os.Stdout,
		ErrWriter:      os.Stderr,
	}

	conf.Store = setupStore(conf)
	return conf
}

func setupStore(conf Config) *Store {
	s := NewStore()

	cfgFile, err := GetConfigFilePath(conf)
	if err != nil {
		return s
	}

	if err := s.LoadYAMLFile(cfgFile); err != nil {
		// Config file not found is OK, we use defaults
		return s
	}

	return s
}

// GetConfigFilePath get the store file path from config
func GetConfigFilePath(conf Config) (string, error) {
	dir, err := GetConfigDirPath(conf)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, conf.ConfigFileName), nil
}

// GetConfigDirPath returns the path of the revfix config folder
func GetConfigDirPath(conf Config) (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("failed to read home directory: %s", err)
	}
	return filepath.Join(home, conf.ConfigDirPath), nil
}
