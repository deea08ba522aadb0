package main

import (
	"context"
	"net/http"
	"os"
	"sync"
	"syscall"

	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/encoding/json"
	"github.com/smasonuk/partindex"
)

type config struct {
	SceneFile     string `cli:""        env:"PARTVIEW_SCENE_FILE"     help:"YAML scene file to load. A demo grid is used when empty."`
	LogLevel      string `cli:""        env:"PARTVIEW_LOG_LEVEL"      help:"Log level (debug|info|warning|error)."`
	LogIndent     bool   `cli:""        env:"PARTVIEW_LOG_INDENT"     help:"Indent logs."`
	Width         int    `cli:""        env:"PARTVIEW_WIDTH"          help:"Window width."`
	Height        int    `cli:""        env:"PARTVIEW_HEIGHT"         help:"Window height."`
	Headless      bool   `cli:""        env:"PARTVIEW_HEADLESS"       help:"Run the queries once without a window, log the results and exit."`
	PickGrid      int    `cli:",hidden" env:"PARTVIEW_PICK_GRID"      help:"Pick rays per axis cast in headless mode."`
	MetricsAddr   string `cli:""        env:"PARTVIEW_METRICS_ADDR"   help:"Listening address for the metrics endpoint. Disabled when empty."`
	Octree        bool   `cli:""        env:"PARTVIEW_OCTREE"         help:"Show the octree overlay on start."`
	CullBackfaces bool   `cli:""        env:"PARTVIEW_CULL_BACKFACES" help:"Ignore back facing triangles when picking."`
	Help          bool   `cli:""        env:"-"                       help:"Show help."`
}

func main() {
	conf := config{
		LogLevel: logs.InfoLevel.String(),
		Width:    960,
		Height:   720,
		PickGrid: 16,
	}

	ctx, cancel := cli.ContextWithSignals(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	cli.Register().
		Help("Views a scene of parts and runs octree picking queries against it.").
		Options(&conf)
	cli.Load()

	logs.SetLevel(logs.ParseLevel(conf.LogLevel))
	logs.Encoder = json.Marshal
	if conf.LogIndent {
		logs.Encoder = func(v any) ([]byte, error) {
			return json.MarshalIndent(v, "", "  ")
		}
	}

	parts, colors, err := loadParts(conf.SceneFile)
	if err != nil {
		logs.Fatal(err)
	}

	scene := partindex.NewScene(parts, partindex.WithCullBackfaces(conf.CullBackfaces))
	stats := scene.VertexStats()
	logs.WithTag("parts", len(parts)).
		WithTag("colors", stats.Colors).
		WithTag("vertices", stats.Vertices).
		WithTag("scene_file", conf.SceneFile).
		Info("scene loaded")

	var wg sync.WaitGroup
	if conf.MetricsAddr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			serveMetrics(ctx, conf.MetricsAddr)
		}()
	}

	if conf.Headless {
		runHeadless(scene, conf)
		cancel()
		wg.Wait()
		return
	}

	ebiten.SetWindowSize(conf.Width, conf.Height)
	ebiten.SetWindowTitle("partview")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(newGame(ctx, scene, colors, conf)); err != nil {
		logs.Fatal(errors.New("running viewer failed").Wrap(err))
	}

	cancel()
	wg.Wait()
}

func loadParts(path string) ([]*partindex.Part, partindex.ColorTable, error) {
	if path == "" {
		return demoParts(), partindex.DefaultColorTable(), nil
	}

	f, err := partindex.LoadSceneFile(path)
	if err != nil {
		return nil, nil, err
	}
	return f.Parts(), f.ColorTable(), nil
}

func serveMetrics(ctx context.Context, addr string) {
	var mux http.ServeMux
	mux.Handle("/metrics", promhttp.Handler())
	s := &http.Server{Addr: addr, Handler: &mux}

	go func() {
		<-ctx.Done()
		if err := s.Shutdown(context.Background()); err != nil {
			logs.Warn(errors.New("shutting down the metrics server failed").
				WithTag("addr", addr).
				Wrap(err))
		}
	}()

	logs.WithTag("addr", addr).Info("starting metrics server")
	switch err := s.ListenAndServe(); err {
	case nil, http.ErrServerClosed:
		logs.WithTag("addr", addr).Info("stopping metrics server")

	default:
		logs.Warn(errors.New("metrics server stopped").
			WithTag("addr", addr).
			Wrap(err))
	}
}
