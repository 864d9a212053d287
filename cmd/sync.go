package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/lead-intel/internal/export"
	"github.com/sells-group/lead-intel/pkg/notion"
	sfpkg "github.com/sells-group/lead-intel/pkg/salesforce"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Push the action queue to Salesforce and Notion",
	Long: `Compute the action queue and push it to the configured downstream
consumers: Salesforce follow-up tasks and a Notion call-sheet database.
Targets are selected by configuration; when both are configured the
pushes run concurrently.

Examples:
  # Push the latest snapshot's queue to whatever is configured
  sync --store

  # Rehearse a push for a fresh export without touching any API
  sync --csv leads.csv --dry-run

  # Attach Salesforce tasks to contacts matched by email
  sync --store --link-contacts`,
	RunE: runSync,
}

func init() {
	f := syncCmd.Flags()
	f.String("csv", "", "path to a CSV lead export")
	f.String("xlsx", "", "path to an XLSX lead export")
	f.String("sheet", "", "XLSX sheet name (default from config, else first sheet)")
	f.Bool("store", false, "compute from the latest stored snapshot")
	f.Bool("notion", false, "compute from the configured Notion lead database")
	f.Bool("dry-run", false, "push to stub clients (no credentials needed)")
	f.Bool("link-contacts", false, "link Salesforce tasks to contacts matched by email")

	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	linkContacts, _ := cmd.Flags().GetBool("link-contacts")

	if !dryRun {
		if err := cfg.Validate("sync"); err != nil {
			return err
		}
	}

	payload, _, err := buildPayload(ctx, cmd, cfg.Engine)
	if err != nil {
		return err
	}
	if payload.Meta.Error != "" {
		return eris.Errorf("sync: %s", payload.Meta.Error)
	}
	if len(payload.ActionQueue) == 0 {
		fmt.Println("Action queue is empty; nothing to sync.")
		return nil
	}

	log := zap.L().With(zap.String("command", "sync"))
	now := time.Now()

	// Resolve targets. Dry-run pushes to both stubs so the full flow can
	// be rehearsed without credentials.
	var (
		sfClient     sfpkg.Client
		notionClient notion.Client
		queueDB      string
	)
	if dryRun {
		sfClient = &export.StubSalesforceClient{}
		notionClient = &export.StubNotionClient{}
		queueDB = "dry-run"
		log.Info("dry run: using stub clients")
	} else {
		if cfg.Salesforce.ClientID != "" {
			if sfClient, err = initSalesforce(); err != nil {
				return err
			}
		}
		if cfg.Notion.Token != "" {
			if notionClient, err = initNotion(); err != nil {
				return err
			}
			queueDB = cfg.Notion.QueueDB
		}
	}

	log.Info("syncing action queue",
		zap.Int("entries", len(payload.ActionQueue)),
		zap.Bool("salesforce", sfClient != nil),
		zap.Bool("notion", notionClient != nil),
		zap.Bool("dry_run", dryRun),
	)

	g, gCtx := errgroup.WithContext(ctx)

	var taskRes, pageRes *export.Result
	if sfClient != nil {
		g.Go(func() error {
			res, err := export.PushTasks(gCtx, sfClient, payload.ActionQueue, linkContacts, now)
			if err != nil {
				return err
			}
			taskRes = res
			return nil
		})
	}
	if notionClient != nil {
		g.Go(func() error {
			res, err := export.PushPages(gCtx, notionClient, queueDB, payload.ActionQueue, now)
			if err != nil {
				return err
			}
			pageRes = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	if taskRes != nil {
		fmt.Printf("Salesforce: %d tasks created, %d failed\n", taskRes.Created, taskRes.Failed)
	}
	if pageRes != nil {
		fmt.Printf("Notion:     %d pages created, %d updated, %d failed\n", pageRes.Created, pageRes.Updated, pageRes.Failed)
	}

	return nil
}
