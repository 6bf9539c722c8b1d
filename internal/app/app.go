// Package app wires configuration, clients and services together
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/finquery/internal/clients/eodhd"
	"github.com/bobmcallan/finquery/internal/clients/gemini"
	"github.com/bobmcallan/finquery/internal/common"
	"github.com/bobmcallan/finquery/internal/interfaces"
	"github.com/bobmcallan/finquery/internal/query"
	"github.com/bobmcallan/finquery/internal/services/analysis"
)

// App holds all initialized services and clients.
type App struct {
	Config          *common.Config
	Logger          *common.Logger
	Tables          *query.Tables
	MarketClient    interfaces.MarketDataClient
	NLGClient       interfaces.NLGClient
	AnalysisService interfaces.AnalysisService
	StartupTime     time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, lookup tables, clients and services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	// Load configuration - check provided path, FINQUERY_CONFIG, then binary dir
	if configPath == "" {
		configPath = os.Getenv("FINQUERY_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(getBinaryDir(), "finquery.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/finquery.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	// Static lookup tables: built once, read-only for the process lifetime.
	tables := query.NewTables(config.Query.Aliases)

	if config.Clients.EODHD.APIKey == "" {
		logger.Warn().Msg("EODHD API key not configured - market data fetches will fail")
	}
	marketClient := eodhd.NewClient(config.Clients.EODHD.APIKey,
		eodhd.WithBaseURL(config.Clients.EODHD.BaseURL),
		eodhd.WithRateLimit(config.Clients.EODHD.RateLimit),
		eodhd.WithTimeout(config.Clients.EODHD.GetTimeout()),
		eodhd.WithLogger(logger),
	)

	// NLG is optional enrichment: without a key the service still answers
	// with structured results only.
	var nlgClient interfaces.NLGClient
	if config.Clients.Gemini.APIKey != "" {
		client, err := gemini.NewClient(context.Background(), config.Clients.Gemini.APIKey,
			gemini.WithModel(config.Clients.Gemini.Model),
			gemini.WithLogger(logger),
		)
		if err != nil {
			logger.Warn().Err(err).Msg("Gemini client unavailable - responses will have no prose summary")
		} else {
			nlgClient = client
		}
	} else {
		logger.Warn().Msg("Gemini API key not configured - responses will have no prose summary")
	}

	extractor := query.NewExtractor(tables, config.Query, logger)

	analysisService := analysis.NewService(extractor, marketClient, nlgClient, logger)
	analysisService.SetFetchTimeout(config.Clients.EODHD.GetTimeout())
	analysisService.SetNLGTimeout(config.Clients.Gemini.GetTimeout())

	return &App{
		Config:          config,
		Logger:          logger,
		Tables:          tables,
		MarketClient:    marketClient,
		NLGClient:       nlgClient,
		AnalysisService: analysisService,
		StartupTime:     time.Now(),
	}, nil
}
