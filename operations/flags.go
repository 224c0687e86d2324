package operations

import (
	"strings"

	"github.com/urfave/cli"
)

////////////////////////////////////////////////////////////////////////
//
// Flag Name Constants

const (
	configFlag     = "config"
	pathFlagName   = "path"
	outputFlagName = "output"

	servicePortFlag   = "port"
	servicePrefixFlag = "prefix"

	clientHostFlag = "host"
	clientPortFlag = "port"

	algorithmFlag = "algorithm"
	minSizeFlag   = "minSize"
	levelFlag     = "level"
	degreeFlag    = "degree"
	quantileFlag  = "quantile"

	periodFlag          = "period"
	maxAnomsFlag        = "maxAnoms"
	alphaFlag           = "alpha"
	directionFlag       = "direction"
	longtermWindowFlag  = "longtermWindow"
	onlyLastFlag        = "onlyLast"
	thresholdFlag       = "threshold"
	breakoutMinSizeFlag = "breakoutMinSize"
	breakoutBetaFlag    = "breakoutBeta"
	breakoutDegreeFlag  = "breakoutDegree"
)

////////////////////////////////////////////////////////////////////////
//
// Utility Functions

func joinFlagNames(ids ...string) string { return strings.Join(ids, ", ") }

func mergeFlags(in ...[]cli.Flag) []cli.Flag {
	out := []cli.Flag{}

	for idx := range in {
		out = append(out, in[idx]...)
	}

	return out
}

////////////////////////////////////////////////////////////////////////
//
// Flag Groups

func addPathFlag(flags ...cli.Flag) []cli.Flag {
	return append(flags, cli.StringFlag{
		Name:  joinFlagNames(pathFlagName, "filename", "file", "f"),
		Usage: "path to a json file holding the input series",
	})
}

func addOutputPath(flags ...cli.Flag) []cli.Flag {
	return append(flags, cli.StringFlag{
		Name:  joinFlagNames(outputFlagName, "o"),
		Usage: "path to the output file, defaults to standard output",
	})
}

func searchFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags,
		cli.StringFlag{
			Name:  joinFlagNames(algorithmFlag, "a"),
			Usage: "search algorithm, one of 'multi', 'percent', 'tail', or 'single'",
			Value: "multi",
		},
		cli.IntFlag{
			Name:  minSizeFlag,
			Usage: "minimum number of observations on each side of a split",
			Value: 30,
		},
		cli.Float64Flag{
			Name:  levelFlag,
			Usage: "acceptance level of the search; larger values are stricter",
			Value: 0.05,
		},
		cli.IntFlag{
			Name:  degreeFlag,
			Usage: "polynomial degree of the per-segment trend removed before scoring",
		},
		cli.Float64Flag{
			Name:  quantileFlag,
			Usage: "tail boundary quantile for the tail algorithm",
			Value: 0.95,
		},
	)
}

func anomalyFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags,
		cli.IntFlag{
			Name:  periodFlag,
			Usage: "number of observations in one reporting period",
		},
		cli.Float64Flag{
			Name:  maxAnomsFlag,
			Usage: "largest fraction of the series to report as anomalous",
		},
		cli.Float64Flag{
			Name:  alphaFlag,
			Usage: "significance level of the outlier test",
		},
		cli.StringFlag{
			Name:  directionFlag,
			Usage: "direction of anomalies to report: 'both', 'pos', or 'neg'",
		},
		cli.IntFlag{
			Name:  longtermWindowFlag,
			Usage: "analyze the series in independent windows of this many observations",
		},
		cli.IntFlag{
			Name:  onlyLastFlag,
			Usage: "only report anomalies in the final number of observations",
		},
		cli.StringFlag{
			Name:  thresholdFlag,
			Usage: "filter positive anomalies against per-period maxima: 'med_max', 'p95', or 'p99'",
		},
		cli.IntFlag{
			Name:  breakoutMinSizeFlag,
			Usage: "enable piecewise trend estimation with this minimum segment size",
		},
		cli.Float64Flag{
			Name:  breakoutBetaFlag,
			Usage: "acceptance level of the piecewise trend search",
			Value: 0.05,
		},
		cli.IntFlag{
			Name:  breakoutDegreeFlag,
			Usage: "polynomial degree of the piecewise trend search",
		},
	)
}

func restServiceFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags,
		cli.StringFlag{
			Name:  clientHostFlag,
			Usage: "host for the remote breakout instance.",
			Value: "http://localhost",
		},
		cli.IntFlag{
			Name:  clientPortFlag,
			Usage: "port for the remote breakout service.",
			Value: 3000,
		},
	)
}
