package services

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"cloud.google.com/go/spanner"
	"github.com/sirupsen/logrus"

	"github.com/light-bringer/staysearch-service/internal/app/search/contracts"
	"github.com/light-bringer/staysearch-service/internal/app/search/queries/get_view"
	"github.com/light-bringer/staysearch-service/internal/app/search/queries/list_events"
	"github.com/light-bringer/staysearch-service/internal/app/search/repo"
	"github.com/light-bringer/staysearch-service/internal/app/search/usecases/apply_filters"
	"github.com/light-bringer/staysearch-service/internal/app/search/usecases/change_sort"
	"github.com/light-bringer/staysearch-service/internal/app/search/usecases/load_more"
	"github.com/light-bringer/staysearch-service/internal/app/search/usecases/modify_search"
	"github.com/light-bringer/staysearch-service/internal/app/search/usecases/reset_filters"
	"github.com/light-bringer/staysearch-service/internal/app/search/usecases/select_listing"
	"github.com/light-bringer/staysearch-service/internal/app/search/usecases/session_flow"
	"github.com/light-bringer/staysearch-service/internal/app/search/usecases/start_search"
	"github.com/light-bringer/staysearch-service/internal/clients/searchapi"
	"github.com/light-bringer/staysearch-service/internal/config"
	"github.com/light-bringer/staysearch-service/internal/pkg/clock"
	"github.com/light-bringer/staysearch-service/internal/pkg/committer"
	grpchealth "github.com/light-bringer/staysearch-service/internal/transport/grpc/health"
	httptransport "github.com/light-bringer/staysearch-service/internal/transport/http"
)

// ServiceOptions holds all dependencies for the application.
type ServiceOptions struct {
	SpannerClient *spanner.Client
	Router        http.Handler
	Health        *grpchealth.Monitor

	cache io.Closer
}

// NewServiceOptions creates and wires up all application dependencies.
func NewServiceOptions(ctx context.Context, cfg config.Config, logger logrus.FieldLogger) (*ServiceOptions, error) {
	// 1. Initialize Spanner client
	spannerClient, err := spanner.NewClient(ctx, cfg.SpannerDB)
	if err != nil {
		return nil, fmt.Errorf("failed to create Spanner client: %w", err)
	}

	// 2. Open the result cache
	cache, closer, err := openResultCache(cfg)
	if err != nil {
		spannerClient.Close()
		return nil, err
	}

	// 3. Create infrastructure components
	clk := clock.NewRealClock()
	comm := committer.NewCommitter(spannerClient)
	api := searchapi.NewClient(searchapi.Config{
		BaseURL:      cfg.SearchAPIURL,
		Timeout:      cfg.SearchAPITimeout,
		DemoFallback: cfg.DemoFallback,
	}, logger.WithField("component", "searchapi"))

	// 4. Create repositories
	sessionRepo := repo.NewSessionRepo(spannerClient, clk)
	outboxRepo := repo.NewOutboxRepo()
	eventsReadModel := repo.NewEventsReadModel(spannerClient)

	loader := session_flow.NewLoader(sessionRepo, cache, clk, cfg.Policy)
	writer := session_flow.NewWriter(sessionRepo, outboxRepo, comm)

	// 5. Create command use cases (write operations)
	commands := httptransport.SearchCommands{
		StartSearch:   start_search.NewInteractor(api, cache, writer, clk, cfg.Policy, cfg.SessionTTL),
		ModifySearch:  modify_search.NewInteractor(sessionRepo, api, cache, writer, clk, cfg.Policy, cfg.SessionTTL),
		ApplyFilters:  apply_filters.NewInteractor(loader, writer, clk),
		ResetFilters:  reset_filters.NewInteractor(loader, writer, clk),
		ChangeSort:    change_sort.NewInteractor(loader, writer, clk),
		LoadMore:      load_more.NewInteractor(loader, writer, clk),
		SelectListing: select_listing.NewInteractor(loader, writer, clk),
	}

	// 6. Create query use cases (read operations)
	queries := httptransport.SearchQueries{
		GetView: get_view.NewQuery(loader),
	}
	listEventsQuery := list_events.NewQuery(eventsReadModel)

	// 7. Create HTTP handlers
	httpLogger := logger.WithField("component", "http")
	router := httptransport.NewRouter(
		httptransport.NewSearchHandler(commands, queries, httpLogger),
		httptransport.NewEventsHandler(listEventsQuery, httpLogger),
		httpLogger,
	)

	// 8. Create the dependency health monitor
	monitor := grpchealth.NewMonitor([]grpchealth.Probe{
		{Name: "spanner", Check: pingSpanner(spannerClient), Critical: true},
		{Name: "result-cache", Check: cache.Ping, Critical: true},
		{Name: "search-api", Check: api.Health},
	}, cfg.HealthInterval, logger.WithField("component", "health"))

	return &ServiceOptions{
		SpannerClient: spannerClient,
		Router:        router,
		Health:        monitor,
		cache:         closer,
	}, nil
}

// Close closes all resources.
func (s *ServiceOptions) Close() {
	if s.cache != nil {
		_ = s.cache.Close()
	}
	if s.SpannerClient != nil {
		s.SpannerClient.Close()
	}
}

type closableCache interface {
	contracts.ResultCache
	io.Closer
}

func openResultCache(cfg config.Config) (contracts.ResultCache, io.Closer, error) {
	var cache closableCache
	switch cfg.ResultCache {
	case config.CacheRedis:
		cache = repo.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	default:
		badgerCache, err := repo.OpenBadgerCache(cfg.BadgerDir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open result cache: %w", err)
		}
		cache = badgerCache
	}
	return cache, cache, nil
}

func pingSpanner(client *spanner.Client) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		iter := client.Single().Query(ctx, spanner.Statement{SQL: "SELECT 1"})
		defer iter.Stop()
		return iter.Do(func(*spanner.Row) error { return nil })
	}
}
