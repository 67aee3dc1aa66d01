// Command showcase runs the demo backend for the list engine and,
// optionally, a headless scrolling client that exercises virtualization,
// page jumps and recycling against it.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fulldump/goconfig"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/listkit/pkg/engine"
	"github.com/go-drift/listkit/pkg/source"
	"github.com/go-drift/listkit/pkg/store"
	"github.com/go-drift/listkit/showcase"
)

type config struct {
	HttpAddr    string `yaml:"httpAddr" usage:"HTTP address of the demo API"`
	Rows        int    `yaml:"rows" usage:"dataset size"`
	LatencyMs   int    `yaml:"latencyMs" usage:"simulated backend latency in milliseconds"`
	Strategy    string `yaml:"strategy" usage:"pagination strategy: page, offset or cursor"`
	Placeholder string `yaml:"placeholder" usage:"placeholder style: blank, dotted, skeleton, masked or pattern"`
	PageSize    int    `yaml:"pageSize" usage:"items per request"`
	Demo        bool   `yaml:"demo" usage:"run the scrolling demo client"`
	Config      string `yaml:"-" usage:"optional yaml config file"`
}

func defaultConfig() config {
	return config{
		HttpAddr:    "localhost:8080",
		Rows:        showcase.DefaultDatasetSize,
		Strategy:    "page",
		Placeholder: "skeleton",
		PageSize:    20,
		Demo:        true,
		Config:      "listkit.yaml",
	}
}

// loadOptional overlays the yaml file onto c if the file exists.
func loadOptional(path string, c *config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func main() {
	c := defaultConfig()
	goconfig.Read(&c)
	if err := loadOptional(c.Config, &c); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, c); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, c config) error {
	server := showcase.NewServer(showcase.NewDataset(c.Rows), time.Duration(c.LatencyMs)*time.Millisecond)

	listener, err := net.Listen("tcp", c.HttpAddr)
	if err != nil {
		return err
	}
	httpServer := &http.Server{Handler: server.Handler()}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fmt.Printf("serving %d rows on http://%s/items\n", c.Rows, listener.Addr())
		if err := httpServer.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	if c.Demo {
		g.Go(func() error {
			defer func() {
				// The demo is done; bring the server down with it.
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = httpServer.Shutdown(shutdownCtx)
			}()
			return demo(ctx, c, "http://"+listener.Addr().String()+"/items")
		})
	}
	return g.Wait()
}

// demo drives a headless engine through the kind of session a UI would
// produce: initial load, a deep page jump and a scroll walk, printing the
// visible window after each step.
func demo(ctx context.Context, c config, endpoint string) error {
	placeholder, err := store.ParsePlaceholderMode(c.Placeholder)
	if err != nil {
		return err
	}

	surface := showcase.NewTextSurface()
	e, err := engine.New(engine.Config{
		PageSize:       c.PageSize,
		ItemHeight:     40,
		ViewportHeight: 600,
		Strategy:       c.Strategy,
		Placeholder:    placeholder,
	}, source.NewHTTP(endpoint), engine.WithRenderer(surface.Render(), nil, nil))
	if err != nil {
		return err
	}
	defer e.Destroy()

	if err := e.Start(ctx); err != nil {
		return err
	}

	if err := e.LoadPage(ctx, 1); err != nil {
		return err
	}
	printWindow(e, surface, "page 1")

	deep := c.Rows / c.PageSize / 2
	if deep > 1 {
		if err := e.LoadPage(ctx, deep); err != nil {
			return err
		}
		printWindow(e, surface, fmt.Sprintf("page %d", deep))
	}

	for i := 0; i < 5; i++ {
		if err := e.LoadNext(ctx); err != nil {
			return err
		}
	}
	printWindow(e, surface, "after 5x next")

	created, destroyed := surface.Stats()
	fmt.Printf("rows created=%d destroyed=%d loaded=%d total=%d\n",
		created, destroyed, len(e.LoadedItems()), e.Total())
	return nil
}

func printWindow(e *engine.Engine, surface *showcase.TextSurface, label string) {
	fmt.Printf("--- %s (page %d, offset %.0f)\n", label, e.CurrentPage(), e.Controller().Offset())
	for _, line := range surface.Snapshot() {
		fmt.Println("  " + line)
	}
}
