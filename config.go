package breakout

import (
	"github.com/evergreen-ci/breakout/util"
	"github.com/mongodb/grip/level"
	"github.com/pkg/errors"
)

// Configuration describes how the REST service should run.
type Configuration struct {
	Port     int    `yaml:"port" json:"port"`
	Prefix   string `yaml:"prefix" json:"prefix"`
	LogLevel string `yaml:"log_level" json:"log_level"`
}

// Validate checks the configuration and fills in defaults.
func (c *Configuration) Validate() error {
	if c.Port == 0 {
		c.Port = 3000
	}
	if c.Port < 0 || c.Port > 65535 {
		return errors.Errorf("port %d is out of range", c.Port)
	}

	if c.LogLevel == "" {
		c.LogLevel = level.Info.String()
	}
	if !level.FromString(c.LogLevel).IsValid() {
		return errors.Errorf("'%s' is not a valid log level", c.LogLevel)
	}

	return nil
}

// LoadConfiguration reads a YAML configuration file and validates its
// contents.
func LoadConfiguration(path string) (*Configuration, error) {
	conf := &Configuration{}

	if err := util.ReadFileYAML(path, conf); err != nil {
		return nil, errors.WithStack(err)
	}

	if err := conf.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid configuration in file '%s'", path)
	}

	return conf, nil
}
