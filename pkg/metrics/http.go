package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

type requestLogger struct {
	log.FieldLogger
}

func (l *requestLogger) Print(v ...interface{}) {
	l.FieldLogger.Debug(v...)
}

// NewRouter serves the collectors gathered by gatherer on /metrics and a
// liveness check on /healthy.
func NewRouter(logger log.FieldLogger, gatherer prometheus.Gatherer) chi.Router {
	router := chi.NewRouter()
	logger = logger.WithField("component", "metrics-server")
	router.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: &requestLogger{logger}}))
	router.Use(middleware.Recoverer)

	router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	router.Get("/healthy", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})
	return router
}

// Serve runs an HTTP server for handler on listenAddr until ctx is done.
func Serve(ctx context.Context, logger log.FieldLogger, listenAddr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:    listenAddr,
		Handler: handler,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Infof("metrics server listening on %s", listenAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Infof("stopping metrics server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}
