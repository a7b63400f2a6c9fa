package health

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"

	"wunder_bot/internal/modules/config"
	"wunder_bot/internal/modules/health/service"
	"wunder_bot/pkg/logger"
	"wunder_bot/pkg/metrics"
)

type Config struct {
	Addr string // например ":8080"
}

func NewConfig(cfg *config.Config) Config {
	return Config{Addr: cfg.AdminAddr()}
}

type RegistryOut struct {
	fx.Out

	Registry *prometheus.Registry
	Gatherer prometheus.Gatherer
}

// NewRegistry: свой реестр вместо глобального, плюс go/process коллекторы.
func NewRegistry() RegistryOut {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return RegistryOut{Registry: reg, Gatherer: reg}
}

func NewRecorder(reg *prometheus.Registry) *metrics.Recorder {
	return metrics.New(reg)
}

func RunHTTP(lc fx.Lifecycle, cfg Config, mux *http.ServeMux) {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", cfg.Addr)
			if err != nil {
				return err
			}
			logger.Info("admin http on %s", ln.Addr())
			go func() {
				if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
					logger.Error("admin http: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

func Module() fx.Option {
	return fx.Module("health",
		fx.Provide(
			service.NewState,
			NewConfig,
			NewRegistry,
			NewRecorder,
			service.NewMux,
		),
		fx.Invoke(RunHTTP),
	)
}
