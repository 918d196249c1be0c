package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/iov-one/vault/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags. Application
// metrics are registered with the given registerer.
type AppGenerator func(home string, logger log.Logger, reg prometheus.Registerer, debug bool) (abci.Application, error)

// StartOptions configure a running node.
type StartOptions struct {
	// Home is the directory holding the application data.
	Home string
	// Bind is the address the ABCI socket server listens on.
	Bind string
	// Debug returns full error details to clients.
	Debug bool
	// Metrics is the HTTP listen address of the metrics endpoint. Empty
	// disables it.
	Metrics string
}

// StartCmd builds the application and serves it over an ABCI socket until
// the process receives a termination signal.
func StartCmd(gen AppGenerator, logger log.Logger, opts StartOptions) error {
	reg := prometheus.NewRegistry()
	app, err := gen(opts.Home, logger, reg, opts.Debug)
	if err != nil {
		return err
	}

	logger.Info("Starting ABCI app", "bind", opts.Bind)
	svr, err := server.NewServer(opts.Bind, "socket", app)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot create listener: %s", err)
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot start server: %s", err)
	}

	var metrics *http.Server
	if opts.Metrics != "" {
		metrics = &http.Server{
			Addr:    opts.Metrics,
			Handler: NewHTTPHandler(reg),
		}
		go func() {
			logger.Info("Serving metrics", "bind", opts.Metrics)
			if err := metrics.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("Metrics server failed", "err", err)
			}
		}()
	}

	cmn.TrapSignal(logger, func() {
		if metrics != nil {
			metrics.Close()
		}
		svr.Stop()
	})

	// Run forever.
	select {}
}

// NewHTTPHandler returns the router serving the prometheus metrics and a
// liveness probe.
func NewHTTPHandler(gatherer prometheus.Gatherer) http.Handler {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods("GET")
	r.HandleFunc("/health", healthHandler).Methods("GET")
	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
