package monitoring

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

var (
	rsvpOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rsvp_operations_total",
			Help: "Total RSVP submissions by status and result",
		},
		[]string{"event_id", "status", "result"},
	)

	eventOccupancy = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "event_occupancy",
			Help: "Current going+maybe occupancy per event",
		},
		[]string{"event_id"},
	)

	eventAvailableSpots = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "event_available_spots",
			Help: "Remaining capacity per event",
		},
		[]string{"event_id"},
	)

	hostNotifyFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "host_notify_failures_total",
			Help: "Failed host notification publishes",
		},
	)
)

// TrackRSVP records an RSVP submission outcome.
func TrackRSVP(eventID, status, result string) {
	rsvpOperations.WithLabelValues(eventID, status, result).Inc()
}

func TrackNotifyFailure() {
	hostNotifyFailures.Inc()
}

// Monitor periodically mirrors the Redis availability snapshots into the
// occupancy gauges.
type Monitor struct {
	redis    *redis.Client
	interval time.Duration
}

func NewMonitor(redisClient *redis.Client, interval time.Duration) *Monitor {
	monitor := &Monitor{redis: redisClient, interval: interval}

	go monitor.collectMetrics()

	return monitor
}

func (m *Monitor) collectMetrics() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for range ticker.C {
		m.collectOccupancy(context.Background())
	}
}

func (m *Monitor) collectOccupancy(ctx context.Context) {
	eventIDs, err := m.redis.SMembers(ctx, "events:active").Result()
	if err != nil {
		return
	}

	for _, eventID := range eventIDs {
		vals, err := m.redis.HMGet(ctx, "event:avail:"+eventID, "going", "maybe", "spots").Result()
		if err != nil || len(vals) != 3 {
			continue
		}

		going := parseGaugeValue(vals[0])
		maybe := parseGaugeValue(vals[1])
		spots := parseGaugeValue(vals[2])

		eventOccupancy.WithLabelValues(eventID).Set(going + maybe)
		eventAvailableSpots.WithLabelValues(eventID).Set(spots)
	}
}

func parseGaugeValue(v any) float64 {
	s, ok := v.(string)
	if !ok {
		return 0
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return n
}
