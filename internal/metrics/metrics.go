// internal/metrics/metrics.go
package metrics

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tamzrod/bms-emulator/internal/rtu"
	"github.com/tamzrod/bms-emulator/internal/status"
)

// Collector exports bus and SOC source state.
// It implements slave.Observer and poller.Observer.
type Collector struct {
	reg *prometheus.Registry

	frames       *prometheus.CounterVec
	replyBytes   prometheus.Counter
	soc          prometheus.Gauge
	socUpdated   prometheus.Gauge
	sourceHealth prometheus.Gauge
	sourceErr    prometheus.Gauge
	sinceGood    prometheus.Gauge
}

// New builds a Collector on its own registry.
func New() *Collector {
	c := &Collector{
		reg: prometheus.NewRegistry(),
		frames: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bms_emulator_frames_total",
			Help: "Frames isolated on the bus, by outcome.",
		}, []string{"result"}),
		replyBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bms_emulator_reply_bytes_total",
			Help: "Bytes written in replies.",
		}),
		soc: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bms_emulator_soc_percent",
			Help: "SOC currently served on the bus.",
		}),
		socUpdated: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bms_emulator_soc_updated_timestamp_seconds",
			Help: "Unix time of the last SOC change.",
		}),
		sourceHealth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bms_emulator_soc_source_health",
			Help: "SOC source health (0 unknown, 1 ok, 2 error, 3 stale).",
		}),
		sourceErr: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bms_emulator_soc_source_last_error_code",
			Help: "Last SOC source error code (0 none, 1 read, 2 parse, 3 range).",
		}),
		sinceGood: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bms_emulator_soc_source_seconds_since_good",
			Help: "Seconds since the last good SOC sample.",
		}),
	}
	c.reg.MustRegister(c.frames, c.replyBytes, c.soc, c.socUpdated, c.sourceHealth, c.sourceErr, c.sinceGood)
	return c
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry { return c.reg }

// ---- slave.Observer ----

func (c *Collector) FrameAnswered(req rtu.ReadRequest, respLen int) {
	c.frames.WithLabelValues("answered").Inc()
	c.replyBytes.Add(float64(respLen))
}

func (c *Collector) FrameDropped(reason error) {
	c.frames.WithLabelValues(Reason(reason)).Inc()
}

// Reason maps a drop reason to a metric label.
func Reason(err error) string {
	switch {
	case errors.Is(err, rtu.ErrBadCRC):
		return "bad_crc"
	case errors.Is(err, rtu.ErrShortFrame):
		return "short"
	case errors.Is(err, rtu.ErrForeignSlave):
		return "foreign"
	case errors.Is(err, rtu.ErrUnsupportedFunction):
		return "unsupported"
	default:
		return "invalid"
	}
}

// ---- poller.Observer ----

func (c *Collector) SOCPublished(pct uint16, at time.Time) {
	c.soc.Set(float64(pct))
	c.socUpdated.Set(float64(at.Unix()))
}

func (c *Collector) SourceStatus(st status.Snapshot) {
	c.soc.Set(float64(st.SOC))
	c.sourceHealth.Set(float64(st.Health))
	c.sourceErr.Set(float64(st.LastErrorCode))
	c.sinceGood.Set(float64(st.SecondsSinceGood))
}

// ---- HTTP ----

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx ends.
func (c *Collector) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("metrics listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
