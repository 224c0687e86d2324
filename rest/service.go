package rest

import (
	"context"

	"github.com/evergreen-ci/gimlet"
	"github.com/pkg/errors"
)

// Service exposes the breakout and anomaly detectors over HTTP.
type Service struct {
	Port   int
	Prefix string

	// internal settings
	app *gimlet.APIApp
}

func (s *Service) Validate() error {
	if s.app == nil {
		s.app = gimlet.NewApp()
	}

	if s.Port == 0 {
		s.Port = 3000
	}

	if err := s.app.SetPort(s.Port); err != nil {
		return errors.WithStack(err)
	}

	if s.Prefix != "" {
		s.app.SetPrefix(s.Prefix)
	}

	return nil
}

func (s *Service) Start(ctx context.Context) error {
	if s.app == nil {
		return errors.New("application is not valid")
	}

	s.addRoutes()

	if err := s.app.Resolve(); err != nil {
		return errors.Wrap(err, "problem resolving routes")
	}

	return s.app.Run(ctx)
}

func (s *Service) addRoutes() {
	s.app.AddRoute("/status").Version(1).Get().Handler(s.statusHandler)
	s.app.AddRoute("/breakout/multi").Version(1).Post().RouteHandler(makeBreakoutMulti())
	s.app.AddRoute("/breakout/percent").Version(1).Post().RouteHandler(makeBreakoutPercent())
	s.app.AddRoute("/breakout/tail").Version(1).Post().RouteHandler(makeBreakoutTail())
	s.app.AddRoute("/breakout/single").Version(1).Post().RouteHandler(makeBreakoutSingle())
	s.app.AddRoute("/anomaly/detect").Version(1).Post().RouteHandler(makeAnomalyDetect())
}
