package main

import (
	"context"
	"os"

	"github.com/k-capehart/go-salesforce/v3"
	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-intel/internal/ingest"
	"github.com/sells-group/lead-intel/internal/store"
	"github.com/sells-group/lead-intel/pkg/anthropic"
	"github.com/sells-group/lead-intel/pkg/notion"
	sfpkg "github.com/sells-group/lead-intel/pkg/salesforce"
)

// initStore opens the configured store backend and runs migrations so
// every command sees a ready schema.
func initStore(ctx context.Context) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch cfg.Store.Driver {
	case "sqlite":
		path := cfg.Store.Path
		if path == "" {
			path = "lead-intel.db"
		}
		st, err = store.NewSQLite(path)
	case "postgres":
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL, &cfg.Store.Pool)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}

// sfRequestsPerSecond caps outbound Salesforce calls well under the org's
// API request allocation.
const sfRequestsPerSecond = 5

func initSalesforce() (sfpkg.Client, error) {
	if cfg.Salesforce.ClientID == "" {
		return nil, eris.New("salesforce client ID is required (LEADINTEL_SALESFORCE_CLIENT_ID)")
	}

	pemData, err := os.ReadFile(cfg.Salesforce.KeyPath)
	if err != nil {
		return nil, eris.Wrap(err, "read salesforce JWT private key")
	}

	sf, err := salesforce.Init(salesforce.Creds{
		Domain:         cfg.Salesforce.LoginURL,
		Username:       cfg.Salesforce.Username,
		ConsumerKey:    cfg.Salesforce.ClientID,
		ConsumerRSAPem: string(pemData),
	})
	if err != nil {
		return nil, eris.Wrap(err, "init salesforce")
	}

	return sfpkg.NewClient(sf, sfpkg.WithRateLimit(sfRequestsPerSecond)), nil
}

func initNotion() (notion.Client, error) {
	if cfg.Notion.Token == "" {
		return nil, eris.New("notion token is required (LEADINTEL_NOTION_TOKEN)")
	}
	return notion.NewClient(cfg.Notion.Token), nil
}

func initAnthropic() (anthropic.Client, error) {
	if cfg.Anthropic.Key == "" {
		return nil, eris.New("anthropic API key is required (LEADINTEL_ANTHROPIC_KEY)")
	}
	return anthropic.NewClient(cfg.Anthropic.Key), nil
}

// loadAliases reads the optional header alias file. A missing config
// entry means no extra aliases, not an error.
func loadAliases() (ingest.Aliases, error) {
	if cfg.Ingest.AliasesFile == "" {
		return nil, nil
	}
	return ingest.LoadAliases(cfg.Ingest.AliasesFile)
}
