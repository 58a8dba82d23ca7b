package loadgen

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/McValls/inspt-demo-newrelic/internal/http"
	"github.com/McValls/inspt-demo-newrelic/pkg/jsonpath"
)

// Doer is the part of *http.Client the executor needs.
type Doer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Executor performs single requests. It never retries: one attempt per id.
type Executor struct {
	client  Doer
	path    string
	extract string
	now     func() time.Time
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithExtract logs the value at this JSON path of every response body.
func WithExtract(path string) ExecutorOption {
	return func(e *Executor) {
		e.extract = path
	}
}

// NewExecutor builds an executor requesting path through client.
func NewExecutor(client Doer, path string, options ...ExecutorOption) *Executor {
	e := &Executor{
		client: client,
		path:   path,
		now:    time.Now,
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Execute performs one GET and classifies the result. Any response that
// arrives counts as a success, whatever its status; transport errors and
// timeouts are failures.
func (e *Executor) Execute(ctx context.Context, id int) Outcome {
	start := e.now()
	resp, err := e.client.Do(ctx, http.Get(e.path))
	elapsed := e.now().Sub(start)

	outcome := Outcome{
		ID:        id,
		Elapsed:   elapsed,
		Timestamp: start,
	}

	if err != nil {
		outcome.Err = errorMessage(err)
		return outcome
	}

	outcome.Success = true
	outcome.StatusCode = resp.StatusCode
	if e.extract != "" {
		if v, err := jsonpath.Extract(resp.BodyString(), e.extract); err == nil {
			outcome.Extracted = v
		} else {
			outcome.Extracted = "<" + err.Error() + ">"
		}
	}
	return outcome
}

// errorMessage drops the `Get "<url>": ` prefix net/http puts on transport
// errors, so messages group by cause rather than by URL.
func errorMessage(err error) string {
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Err != nil {
		return uerr.Err.Error()
	}
	return err.Error()
}
