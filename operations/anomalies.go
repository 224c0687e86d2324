package operations

import (
	"github.com/evergreen-ci/breakout/anomaly"
	"github.com/evergreen-ci/breakout/util"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

// Anomalies returns the ./breakout anomalies sub-command object, which runs
// the anomaly detector on a local series file.
func Anomalies() cli.Command {
	return cli.Command{
		Name:  "anomalies",
		Usage: "find anomalous observations in a json series file",
		Flags: mergeFlags(addPathFlag(), addOutputPath(), anomalyFlags()),
		Before: mergeBeforeFuncs(
			requireStringFlag(pathFlagName),
			requireFileExists(pathFlagName),
			requireIntFlag(periodFlag),
		),
		Action: func(c *cli.Context) error {
			series := []float64{}
			if err := util.ReadFileJSON(c.String(pathFlagName), &series); err != nil {
				return errors.Wrap(err, "problem reading input series")
			}

			opts := anomalyOptions(c)

			grip.Debug(message.Fields{
				"op":     "anomalies",
				"length": len(series),
				"period": opts.Period,
			})

			anomalies, err := anomaly.Detect(series, opts)
			if err != nil {
				return errors.Wrap(err, "problem detecting anomalies")
			}

			return errors.WithStack(writeOutput(c.String(outputFlagName), anomalies))
		},
	}
}

func anomalyOptions(c *cli.Context) anomaly.Options {
	opts := anomaly.Options{
		Period:         c.Int(periodFlag),
		MaxAnoms:       c.Float64(maxAnomsFlag),
		Alpha:          c.Float64(alphaFlag),
		Direction:      anomaly.Direction(c.String(directionFlag)),
		LongtermWindow: c.Int(longtermWindowFlag),
		OnlyLast:       c.Int(onlyLastFlag),
		Threshold:      anomaly.Threshold(c.String(thresholdFlag)),
	}

	if c.Int(breakoutMinSizeFlag) > 0 {
		opts.Breakout = &anomaly.BreakoutOptions{
			MinSize: c.Int(breakoutMinSizeFlag),
			Beta:    c.Float64(breakoutBetaFlag),
			Degree:  c.Int(breakoutDegreeFlag),
		}
	}

	return opts
}
