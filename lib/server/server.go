package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-set/v2"
	"github.com/pkg/errors"

	"github.com/pescuma/reviewers-by-blame/lib/consoles"
	"github.com/pescuma/reviewers-by-blame/lib/metrics"
	"github.com/pescuma/reviewers-by-blame/lib/model"
	"github.com/pescuma/reviewers-by-blame/lib/reviewers"
	"github.com/pescuma/reviewers-by-blame/lib/storages"
)

type Options struct {
	Host string
	Port uint
}

type Suggester interface {
	Suggest(ctx context.Context, req reviewers.Request) (*set.Set[model.AccountID], error)
}

type EventListener interface {
	OnPatchSetCreated(e *model.PatchSetCreatedEvent) (bool, error)
	OnRefUpdated(e *model.RefUpdatedEvent) (int, error)
}

type Dependencies struct {
	Listener  EventListener
	Suggester Suggester
	Storage   storages.Storage
	Metrics   *metrics.Metrics
}

// Run serves until ctx is done.
func Run(ctx context.Context, console consoles.Console, deps Dependencies, opts *Options) error {
	s := newServer(console, deps, opts)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf("%v:%v", s.opts.Host, s.opts.Port),
		Handler: s.router(),
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		_ = httpServer.Shutdown(shutdownCtx)
	}()

	console.Printf("Starting server on %v...", httpServer.Addr)

	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

type server struct {
	opts    *Options
	console consoles.Console

	listener  EventListener
	suggester Suggester
	storage   storages.Storage
	metrics   *metrics.Metrics
}

func newServer(console consoles.Console, deps Dependencies, opts *Options) *server {
	if opts == nil {
		opts = &Options{}
	}
	if opts.Port == 0 {
		opts.Port = 2427
	}

	return &server{
		opts:      opts,
		console:   console,
		listener:  deps.Listener,
		suggester: deps.Suggester,
		storage:   deps.Storage,
		metrics:   deps.Metrics,
	}
}

func (s *server) router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	s.initEvents(r)
	s.initChanges(r)
	s.initMetrics(r)

	return r
}

func (s *server) initMetrics(r *gin.Engine) {
	if s.metrics == nil {
		return
	}

	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
}
