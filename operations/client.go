package operations

import (
	"context"

	"github.com/evergreen-ci/breakout/rest"
	"github.com/evergreen-ci/breakout/util"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

// Client returns the ./breakout client sub-command object, which talks to a
// remote breakout service.
func Client() cli.Command {
	return cli.Command{
		Name:  "client",
		Usage: "run a simple breakout client",
		Flags: restServiceFlags(),
		Subcommands: []cli.Command{
			printStatus(),
			remoteDetect(),
		},
	}
}

func printStatus() cli.Command {
	return cli.Command{
		Name:  "status",
		Usage: "prints json document for the status of the service",
		Action: func(c *cli.Context) error {
			ctx := context.Background()

			client, err := rest.NewClient(c.Parent().String(clientHostFlag), c.Parent().Int(clientPortFlag), "")
			if err != nil {
				return errors.Wrap(err, "problem creating REST client")
			}
			defer client.Close()

			status, err := client.GetStatus(ctx)
			if err != nil {
				return errors.Wrap(err, "problem getting status")
			}

			return errors.WithStack(writeOutput("", status))
		},
	}
}

func remoteDetect() cli.Command {
	return cli.Command{
		Name:   "detect",
		Usage:  "find change points in a json series file using the remote service",
		Flags:  mergeFlags(addPathFlag(), addOutputPath(), searchFlags()),
		Before: mergeBeforeFuncs(requireStringFlag(pathFlagName), requireFileExists(pathFlagName)),
		Action: func(c *cli.Context) error {
			ctx := context.Background()

			client, err := rest.NewClient(c.Parent().String(clientHostFlag), c.Parent().Int(clientPortFlag), "")
			if err != nil {
				return errors.Wrap(err, "problem creating REST client")
			}
			defer client.Close()

			series := []float64{}
			if err := util.ReadFileJSON(c.String(pathFlagName), &series); err != nil {
				return errors.Wrap(err, "problem reading input series")
			}

			var result interface{}
			switch algorithm := c.String(algorithmFlag); algorithm {
			case "multi":
				result, err = client.BreakoutMulti(ctx, rest.BreakoutSeriesRequest{
					Series:  series,
					MinSize: c.Int(minSizeFlag),
					Level:   c.Float64(levelFlag),
					Degree:  c.Int(degreeFlag),
				})
			case "percent":
				result, err = client.BreakoutPercent(ctx, rest.BreakoutSeriesRequest{
					Series:  series,
					MinSize: c.Int(minSizeFlag),
					Level:   c.Float64(levelFlag),
					Degree:  c.Int(degreeFlag),
				})
			case "tail":
				result, err = client.BreakoutTail(ctx, rest.BreakoutTailRequest{
					Series:   series,
					MinSize:  c.Int(minSizeFlag),
					Alpha:    c.Float64(levelFlag),
					Quantile: c.Float64(quantileFlag),
				})
			case "single":
				result, err = client.BreakoutSingle(ctx, rest.BreakoutTailRequest{
					Series:  series,
					MinSize: c.Int(minSizeFlag),
					Alpha:   c.Float64(levelFlag),
				})
			default:
				return errors.Errorf("'%s' is not a valid algorithm", algorithm)
			}
			if err != nil {
				return errors.Wrap(err, "problem running remote search")
			}

			return errors.WithStack(writeOutput(c.String(outputFlagName), result))
		},
	}
}
