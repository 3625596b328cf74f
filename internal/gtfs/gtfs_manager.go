package gtfs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"sync"
	"time"

	"metrograph.onebusaway.org/gtfsdb"
	"metrograph.onebusaway.org/internal/graph"
	"metrograph.onebusaway.org/internal/logging"
	"metrograph.onebusaway.org/internal/metrics"
	"metrograph.onebusaway.org/internal/routing"
	"metrograph.onebusaway.org/internal/utils"
)

// Manager owns the loaded network: the graph, the engine built for it and
// the station catalog. Graph and engine are swapped together on refresh.
type Manager struct {
	gtfsSource  string
	isLocalFile bool
	config      Config
	logger      *slog.Logger
	metrics     *metrics.Collector
	parse       ParseOptions

	mu          sync.RWMutex
	graph       *graph.Graph
	engine      *routing.Engine
	feed        *Feed
	archiveHash string
	lastUpdated time.Time

	catalog      *gtfsdb.Client
	shutdownChan chan struct{}
	wg           sync.WaitGroup
	shutdownOnce sync.Once
}

// Statistics describes the loaded network.
type Statistics struct {
	Source           string
	LastUpdated      time.Time
	Graph            graph.Stats
	Warnings         int
	HeuristicSpeed   float64
	HeuristicRelaxed bool
}

// InitGTFSManager loads the archive named by config.GtfsURL, which can be
// either a URL or a local file path, and starts periodic refresh for
// remote sources.
func InitGTFSManager(config Config) (*Manager, error) {
	config = config.withDefaults()
	manager, err := newManager(config)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.DownloadTimeout)
	defer cancel()
	b, err := rawGtfsData(ctx, manager.gtfsSource, manager.isLocalFile)
	if err != nil {
		manager.Shutdown()
		return nil, err
	}
	if err := manager.load(ctx, b); err != nil {
		manager.Shutdown()
		return nil, err
	}

	if !manager.isLocalFile && config.RefreshInterval > 0 {
		manager.wg.Add(1)
		go manager.updateStaticGTFS()
	}
	return manager, nil
}

// NewManagerFromArchive serves an archive already in memory. It never
// refreshes.
func NewManagerFromArchive(config Config, b []byte) (*Manager, error) {
	config = config.withDefaults()
	if config.GtfsURL == "" {
		config.GtfsURL = "memory"
	}
	manager, err := newManager(config)
	if err != nil {
		return nil, err
	}
	manager.isLocalFile = true
	if err := manager.load(context.Background(), b); err != nil {
		manager.Shutdown()
		return nil, err
	}
	return manager, nil
}

func newManager(config Config) (*Manager, error) {
	pattern, err := regexp.Compile(config.LinePattern)
	if err != nil {
		return nil, fmt.Errorf("invalid line pattern: %w", err)
	}
	projector, err := utils.NewProjector(config.Projection)
	if err != nil {
		return nil, err
	}
	logger := logging.OrDefault(config.Logger)

	dbConfig := gtfsdb.NewConfig(config.GTFSDataPath, config.Env, config.Verbose)
	dbConfig.Logger = logger
	catalog, err := gtfsdb.NewClient(dbConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create station catalog: %w", err)
	}

	return &Manager{
		gtfsSource:  config.GtfsURL,
		isLocalFile: config.isLocalFile(),
		config:      config,
		logger:      logger,
		metrics:     config.Metrics,
		parse: ParseOptions{
			LinePattern:         pattern,
			DefaultLine:         config.DefaultLine,
			Projector:           projector,
			DefaultTransferTime: config.DefaultTransferTime,
		},
		catalog:      catalog,
		shutdownChan: make(chan struct{}),
	}, nil
}

// load parses b, builds graph and engine, refreshes the catalog and then
// publishes the new network. On error the current network stays in place.
func (manager *Manager) load(ctx context.Context, b []byte) error {
	hash := gtfsdb.FileHash(b)
	start := time.Now()

	feed, err := ParseArchive(b, manager.parse)
	if err != nil {
		manager.metrics.ObserveGraphBuild(graph.Stats{}, err)
		return err
	}
	g, err := feed.BuildGraph(manager.config.SymmetricTransfers)
	manager.metrics.ObserveGraphBuild(statsOf(g), err)
	if err != nil {
		return err
	}
	engine := routing.NewEngine(g,
		routing.WithMaxSpeed(manager.config.MaxSpeed),
		routing.WithTransferPenalty(manager.config.TransferPenalty),
	)

	if _, err := manager.catalog.ImportStations(ctx, hash, manager.gtfsSource, g.Stations()); err != nil {
		return fmt.Errorf("error importing station catalog: %w", err)
	}

	manager.mu.Lock()
	manager.graph = g
	manager.engine = engine
	manager.feed = feed
	manager.archiveHash = hash
	manager.lastUpdated = time.Now()
	manager.mu.Unlock()

	stats := g.Stats()
	logging.LogOperation(manager.logger, "graph_built",
		slog.String("source", manager.gtfsSource),
		slog.Int("lines", stats.Lines),
		slog.Int("stations", stats.Stations),
		slog.Int("rides", stats.Rides),
		slog.Int("transfers", stats.Transfers),
		slog.Int("warnings", feed.Warnings),
		slog.Float64("heuristic_speed", engine.HeuristicSpeed()),
		slog.Bool("heuristic_relaxed", engine.HeuristicRelaxed()),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

func statsOf(g *graph.Graph) graph.Stats {
	if g == nil {
		return graph.Stats{}
	}
	return g.Stats()
}

// Refresh downloads the source again and loads it when its content changed.
func (manager *Manager) Refresh(ctx context.Context) (bool, error) {
	b, err := rawGtfsData(ctx, manager.gtfsSource, manager.isLocalFile)
	if err != nil {
		return false, err
	}
	manager.mu.RLock()
	unchanged := gtfsdb.FileHash(b) == manager.archiveHash
	manager.mu.RUnlock()
	if unchanged {
		manager.logger.Debug("gtfs source unchanged", slog.String("source", manager.gtfsSource))
		return false, nil
	}
	if err := manager.load(ctx, b); err != nil {
		return false, err
	}
	return true, nil
}

// updateStaticGTFS refreshes remote sources until Shutdown.
func (manager *Manager) updateStaticGTFS() {
	defer manager.wg.Done()

	ticker := time.NewTicker(manager.config.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), manager.config.DownloadTimeout)
			_, err := manager.Refresh(ctx)
			cancel()
			if err != nil {
				// Keep serving the previous network.
				logging.LogError(manager.logger, "Error updating GTFS data", err,
					slog.String("source", manager.gtfsSource))
			}
		case <-manager.shutdownChan:
			manager.logger.Info("shutting down static GTFS updates")
			return
		}
	}
}

// Shutdown stops background refresh and closes the catalog. It is safe to
// call more than once.
func (manager *Manager) Shutdown() {
	manager.shutdownOnce.Do(func() {
		close(manager.shutdownChan)
		manager.wg.Wait()
		if manager.catalog != nil {
			logging.SafeCloseWithLogging(manager.catalog, manager.logger, "station catalog")
		}
	})
}

// Snapshot returns the current graph and the engine built for it.
func (manager *Manager) Snapshot() (*graph.Graph, *routing.Engine) {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return manager.graph, manager.engine
}

func (manager *Manager) Graph() *graph.Graph {
	g, _ := manager.Snapshot()
	return g
}

func (manager *Manager) Engine() *routing.Engine {
	_, e := manager.Snapshot()
	return e
}

func (manager *Manager) Catalog() *gtfsdb.Client {
	return manager.catalog
}

func (manager *Manager) LastUpdated() time.Time {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return manager.lastUpdated
}

// SearchStations returns the stations whose name starts with pattern,
// matched case-insensitively as a regular expression, in graph order.
func (manager *Manager) SearchStations(pattern string) ([]graph.Station, error) {
	re, err := utils.ValidatePattern(pattern)
	if err != nil {
		return nil, err
	}
	matches := []graph.Station{}
	for _, station := range manager.Graph().Stations() {
		if re.MatchString(station.Name) {
			matches = append(matches, station)
		}
	}
	return matches, nil
}

// Network is one consistent view of the loaded graph and the engine built
// for it. It stays valid after a refresh replaces the manager's network.
type Network struct {
	Graph   *graph.Graph
	Engine  *routing.Engine
	metrics *metrics.Collector
}

// Network returns the current graph and engine as a single view.
func (manager *Manager) Network() Network {
	g, engine := manager.Snapshot()
	return Network{Graph: g, Engine: engine, metrics: manager.metrics}
}

// FindPath queries the network's engine and records the outcome.
func (n Network) FindPath(originID, destID string, opts ...routing.QueryOption) (*routing.PathResult, error) {
	start := time.Now()
	result, err := n.Engine.FindPath(originID, destID, opts...)
	expanded := 0
	if result != nil {
		expanded = result.Expanded
	}
	n.metrics.ObserveQuery(metrics.KindPath, time.Since(start), expanded, err)
	return result, err
}

// Reachable queries the network's engine and records the outcome, counting
// expansions even when the query fails.
func (n Network) Reachable(originID string, maxCost time.Duration, opts ...routing.QueryOption) ([]routing.Reach, error) {
	start := time.Now()
	expanded := 0
	opts = append(opts[:len(opts):len(opts)], routing.WithExpansionHook(func(graph.Station) { expanded++ }))
	reaches, err := n.Engine.Reachable(originID, maxCost, opts...)
	n.metrics.ObserveQuery(metrics.KindReachable, time.Since(start), expanded, err)
	return reaches, err
}

// FindPath queries the current network.
func (manager *Manager) FindPath(originID, destID string, opts ...routing.QueryOption) (*routing.PathResult, error) {
	return manager.Network().FindPath(originID, destID, opts...)
}

// Reachable queries the current network.
func (manager *Manager) Reachable(originID string, maxCost time.Duration, opts ...routing.QueryOption) ([]routing.Reach, error) {
	return manager.Network().Reachable(originID, maxCost, opts...)
}

func (manager *Manager) Statistics() Statistics {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return Statistics{
		Source:           manager.gtfsSource,
		LastUpdated:      manager.lastUpdated,
		Graph:            manager.graph.Stats(),
		Warnings:         manager.feed.Warnings,
		HeuristicSpeed:   manager.engine.HeuristicSpeed(),
		HeuristicRelaxed: manager.engine.HeuristicRelaxed(),
	}
}

// PrintStatistics writes a summary of the loaded network to stdout.
func (manager *Manager) PrintStatistics() {
	manager.WriteStatistics(os.Stdout)
}

func (manager *Manager) WriteStatistics(w io.Writer) {
	stats := manager.Statistics()
	_, _ = fmt.Fprintf(w, "Source: %s\n", stats.Source)
	_, _ = fmt.Fprintf(w, "Last updated: %s\n", stats.LastUpdated.Format(time.RFC3339))
	_, _ = fmt.Fprintf(w, "Lines: %d\n", stats.Graph.Lines)
	_, _ = fmt.Fprintf(w, "Stations: %d\n", stats.Graph.Stations)
	_, _ = fmt.Fprintf(w, "Trips: %d\n", stats.Graph.Trips)
	_, _ = fmt.Fprintf(w, "Ride edges: %d\n", stats.Graph.Rides)
	_, _ = fmt.Fprintf(w, "Transfer edges: %d\n", stats.Graph.Transfers)
	_, _ = fmt.Fprintf(w, "Parser warnings: %d\n", stats.Warnings)
	_, _ = fmt.Fprintf(w, "Heuristic speed: %.2f m/s (relaxed: %t)\n", stats.HeuristicSpeed, stats.HeuristicRelaxed)
}
