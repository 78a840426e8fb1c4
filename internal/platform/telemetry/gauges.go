package telemetry

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// CollectionSizes reports current collection sizes.
type CollectionSizes func() (questions, replies, tags, bannedWords int)

// RegisterCollectionGauges exposes collection sizes as Prometheus gauges on
// reg. Registering twice on the same registry is not an error.
func RegisterCollectionGauges(reg prometheus.Registerer, sizes CollectionSizes) error {
	gauge := func(name, help string, pick func(q, r, t, w int) int) prometheus.Collector {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "campusqa",
			Subsystem: "store",
			Name:      name,
			Help:      help,
		}, func() float64 {
			return float64(pick(sizes()))
		})
	}

	collectors := []prometheus.Collector{
		gauge("questions", "Questions held by the content store.", func(q, _, _, _ int) int { return q }),
		gauge("replies", "Replies held by the content store.", func(_, r, _, _ int) int { return r }),
		gauge("tags", "Tags in the registry.", func(_, _, t, _ int) int { return t }),
		gauge("banned_words", "Words in the moderation list.", func(_, _, _, w int) int { return w }),
	}

	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}

			return err
		}
	}

	return nil
}
