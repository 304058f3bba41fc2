package listing

import (
	"context"
	"net/url"

	"golang.org/x/sync/errgroup"

	"jobmate/directory-service/pkg/logging"
)

// Seed is what the initial loader hands to the first render: the state parsed
// from the request URL, the page for that state and the company options.
type Seed struct {
	Filter    FilterState     `json:"filter"`
	Result    ResultPage      `json:"result"`
	Companies []CompanyOption `json:"companies"`
}

// Loader builds the Seed for an incoming request.
type Loader struct {
	exec      Executor
	companies CompanySource
	log       *logging.Logger
}

// NewLoader returns a configured Loader.
func NewLoader(exec Executor, companies CompanySource, log *logging.Logger) *Loader {
	return &Loader{exec: exec, companies: companies, log: log.With("component", "loader")}
}

// Load parses values and runs the page query and the company enumeration in
// parallel. Malformed parameters fall back to defaults. A failed company
// enumeration only empties the company options. When the page query fails
// the returned Seed still carries the parsed filter and err is a *LoadError.
func (l *Loader) Load(ctx context.Context, values url.Values) (Seed, error) {
	f, verr := ParseQuery(values)
	if verr != nil {
		l.log.Debug("listing parameters replaced by defaults", "err", verr)
	}

	seed := Seed{Filter: f}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := l.exec.Execute(gctx, f)
		if err != nil {
			return err
		}
		seed.Result = res
		return nil
	})
	g.Go(func() error {
		opts, err := l.companies.CompanyOptions(gctx)
		if err != nil {
			// The page still renders, just without company choices.
			l.log.Warn("company options unavailable", "err", err)
			opts = []CompanyOption{}
		}
		seed.Companies = opts
		return nil
	})

	if err := g.Wait(); err != nil {
		l.log.Error("initial listing load failed", "err", err)
		return Seed{Filter: f, Result: ResultPage{Items: []Posting{}}}, &LoadError{Err: err}
	}
	return seed, nil
}
