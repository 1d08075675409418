package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/apex/log"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/subosito/gotenv"
)

type Configer interface {
	Load() error
	GetKey(key string) string
	MustGetKey(key string) string
	GetKeyWithDefault(key, defaultValue string) string
	GetIntKeyWithDefault(key string, defaultValue int) int
}

// DotenvConfig loads configuration keys from a dotenv file into the process
// environment and reads them back through os.Getenv, so keys already set in
// the environment win over the file.
type DotenvConfig struct {
	DotenvPath string
}

func NewDotenvConfig(path string) *DotenvConfig {
	return &DotenvConfig{DotenvPath: path}
}

// MustLoadFromDotenv loads the dotenv file at HACKD_DOTENV_PATH, falling back
// to ~/.hackd/env. A missing file is not fatal; required keys are checked at
// the point of use with MustGetKey.
func MustLoadFromDotenv() *DotenvConfig {
	path := os.Getenv("HACKD_DOTENV_PATH")
	if path == "" {
		home, err := homedir.Dir()
		if err != nil {
			log.Fatalf("Unable to determine home directory: %s", err)
		}
		path = filepath.Join(home, ".hackd", "env")
	}

	c := NewDotenvConfig(path)
	if err := c.Load(); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed loading configuration file %s: %s", path, err)
	}

	return c
}

func (c *DotenvConfig) Load() error {
	return gotenv.Load(c.DotenvPath)
}

func (c *DotenvConfig) GetKey(key string) string {
	return os.Getenv(key)
}

func (c *DotenvConfig) MustGetKey(key string) string {
	val := c.GetKey(key)
	if val == "" {
		log.Fatalf("No such required config key: '%s'", key)
	}

	return val
}

func (c *DotenvConfig) GetKeyWithDefault(key, defaultValue string) string {
	val := c.GetKey(key)
	if val == "" {
		return defaultValue
	}

	return val
}

func (c *DotenvConfig) GetIntKeyWithDefault(key string, defaultValue int) int {
	intVal, err := strconv.Atoi(c.GetKey(key))
	if err != nil {
		return defaultValue
	}

	return intVal
}
