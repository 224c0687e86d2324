package operations

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/evergreen-ci/breakout"
	"github.com/evergreen-ci/breakout/rest"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/level"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

// Service returns the ./breakout service sub-command object, which is
// responsible for starting the REST service.
func Service() cli.Command {
	return cli.Command{
		Name:  "service",
		Usage: "run the breakout api service",
		Flags: []cli.Flag{
			cli.IntFlag{
				Name:   joinFlagNames(servicePortFlag, "p"),
				Usage:  "specify a port to run the service on",
				EnvVar: "BREAKOUT_SERVICE_PORT",
			},
			cli.StringFlag{
				Name:  servicePrefixFlag,
				Usage: "specify a prefix for the service route",
			},
			cli.StringFlag{
				Name:   configFlag,
				Usage:  "path to a yaml configuration file",
				EnvVar: "BREAKOUT_CONFIG_PATH",
			},
		},
		Action: func(c *cli.Context) error {
			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			conf, err := loadServiceConf(c)
			if err != nil {
				return errors.WithStack(err)
			}

			if err := setLogLevel(conf.LogLevel); err != nil {
				return errors.Wrap(err, "problem setting log level")
			}

			service := &rest.Service{
				Port:   conf.Port,
				Prefix: conf.Prefix,
			}

			if err := service.Validate(); err != nil {
				return errors.Wrap(err, "problem validating service")
			}

			grip.Noticef("starting breakout service on :%d", conf.Port)
			if err := service.Start(ctx); err != nil {
				return errors.Wrap(err, "problem running service")
			}

			grip.Info("completed service, terminating.")
			return nil
		},
	}
}

func loadServiceConf(c *cli.Context) (*breakout.Configuration, error) {
	conf := &breakout.Configuration{}

	if path := c.String(configFlag); path != "" {
		loaded, err := breakout.LoadConfiguration(path)
		if err != nil {
			return nil, errors.Wrap(err, "problem loading configuration file")
		}
		conf = loaded
	}

	// explicit flags win over the file contents
	if c.Int(servicePortFlag) != 0 {
		conf.Port = c.Int(servicePortFlag)
	}
	if c.String(servicePrefixFlag) != "" {
		conf.Prefix = c.String(servicePrefixFlag)
	}

	if err := conf.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid service configuration")
	}

	return conf, nil
}

func setLogLevel(logLevel string) error {
	sender := grip.GetSender()

	lvl := sender.Level()
	lvl.Threshold = level.FromString(logLevel)
	return errors.WithStack(sender.SetLevel(lvl))
}
