package partindex

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	queryKindLabel   = "kind"
	queryResultLabel = "result"
	colorLabel       = "color"
)

var (
	octreeGenerateLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "partindex_octree_generate_seconds",
		Help: "The time to rebuild the octree.",
	})

	octreeNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "partindex_octree_nodes",
		Help: "The number of nodes in the last generated octree.",
	})

	octreeQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "partindex_octree_queries",
		Help: "The number of octree queries by kind and result.",
	}, []string{
		queryKindLabel,
		queryResultLabel,
	})

	liveVertices = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "partindex_live_vertices",
		Help: "The number of distinct live vertices per color.",
	}, []string{
		colorLabel,
	})

	drawListLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "partindex_draw_list_merge_seconds",
		Help: "The time to merge the per part index lists into draw lists.",
	})
)

func instrumentOctreeGenerate(start time.Time, stats OctreeStats) {
	octreeGenerateLatency.Observe(time.Since(start).Seconds())
	octreeNodes.Set(float64(stats.Nodes))
}

func instrumentQuery(kind string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}

	octreeQueries.With(prometheus.Labels{
		queryKindLabel:   kind,
		queryResultLabel: result,
	}).Inc()
}

func instrumentVertices(m *VertexManager) {
	for color, vm := range m.maps {
		liveVertices.With(prometheus.Labels{
			colorLabel: color.String(),
		}).Set(float64(vm.Len()))
	}
}

func instrumentDrawLists(start time.Time) {
	drawListLatency.Observe(time.Since(start).Seconds())
}
