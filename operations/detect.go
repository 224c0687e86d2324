package operations

import (
	"encoding/json"
	"fmt"

	"github.com/evergreen-ci/breakout/edm"
	"github.com/evergreen-ci/breakout/rest"
	"github.com/evergreen-ci/breakout/util"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

// Detect returns the ./breakout detect sub-command object, which runs one
// of the search algorithms on a local series file.
func Detect() cli.Command {
	return cli.Command{
		Name:   "detect",
		Usage:  "find change points in a json series file",
		Flags:  mergeFlags(addPathFlag(), addOutputPath(), searchFlags()),
		Before: mergeBeforeFuncs(requireStringFlag(pathFlagName), requireFileExists(pathFlagName)),
		Action: func(c *cli.Context) error {
			series := []float64{}
			if err := util.ReadFileJSON(c.String(pathFlagName), &series); err != nil {
				return errors.Wrap(err, "problem reading input series")
			}

			opts := searchOptions{
				algorithm: c.String(algorithmFlag),
				minSize:   c.Int(minSizeFlag),
				level:     c.Float64(levelFlag),
				degree:    c.Int(degreeFlag),
				quantile:  c.Float64(quantileFlag),
			}

			grip.Debug(message.Fields{
				"op":        "detect",
				"algorithm": opts.algorithm,
				"length":    len(series),
				"min_size":  opts.minSize,
			})

			result, err := runSearch(series, opts)
			if err != nil {
				return errors.Wrap(err, "problem running search")
			}

			return errors.WithStack(writeOutput(c.String(outputFlagName), result))
		},
	}
}

type searchOptions struct {
	algorithm string
	minSize   int
	level     float64
	degree    int
	quantile  float64
}

func runSearch(series []float64, opts searchOptions) (interface{}, error) {
	switch opts.algorithm {
	case "multi":
		indices, err := edm.Multi(series, opts.minSize, opts.level, opts.degree)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		return &rest.BreakoutIndicesResponse{Indices: indices}, nil
	case "percent":
		indices, err := edm.Percent(series, opts.minSize, opts.level, opts.degree)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		return &rest.BreakoutIndicesResponse{Indices: indices}, nil
	case "tail":
		best, err := edm.Tail(series, opts.minSize, opts.level, opts.quantile)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		return &rest.BreakoutSplitResponse{
			Location:    best.Location,
			Statistic:   best.Statistic,
			Significant: best.Significant,
		}, nil
	case "single":
		best, err := edm.Single(series, opts.minSize, opts.level)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		return &rest.BreakoutSplitResponse{
			Location:    best.Location,
			Statistic:   best.Statistic,
			Significant: best.Significant,
		}, nil
	default:
		return nil, errors.Errorf("'%s' is not a valid algorithm", opts.algorithm)
	}
}

func writeOutput(path string, data interface{}) error {
	if path != "" {
		return errors.WithStack(util.WriteFileJSON(path, data))
	}

	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return errors.Wrap(err, "problem rendering result")
	}

	fmt.Println(string(out))
	return nil
}
