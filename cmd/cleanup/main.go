package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/staysearch-service/internal/models/m_outbox"
	"github.com/light-bringer/staysearch-service/internal/models/m_search_session"
	"github.com/light-bringer/staysearch-service/internal/pkg/query"
)

// Config for the cleanup job.
type Config struct {
	SpannerDB              string
	CompletedRetentionDays int
	FailedRetentionDays    int
	SessionGrace           time.Duration
	DryRun                 bool
}

var log = logrus.WithField("cmd", "cleanup")

func main() {
	config := Config{}
	flag.StringVar(&config.SpannerDB, "database", "", "Spanner database (required, format: projects/PROJECT/instances/INSTANCE/databases/DATABASE)")
	flag.IntVar(&config.CompletedRetentionDays, "completed-retention", 30, "Retention days for completed events")
	flag.IntVar(&config.FailedRetentionDays, "failed-retention", 90, "Retention days for failed events")
	flag.DurationVar(&config.SessionGrace, "session-grace", 24*time.Hour, "How long expired search sessions are kept")
	flag.BoolVar(&config.DryRun, "dry-run", false, "Show what would be deleted without actually deleting")
	flag.Parse()

	if config.SpannerDB == "" {
		log.Fatal("-database flag is required")
	}

	if err := run(context.Background(), config); err != nil {
		log.Fatalf("Cleanup failed: %v", err)
	}
	log.Info("Cleanup completed successfully")
}

// cutoffs are the instants before which rows are removed.
type cutoffs struct {
	completed time.Time
	failed    time.Time
	sessions  time.Time
}

func newCutoffs(now time.Time, config Config) cutoffs {
	return cutoffs{
		completed: now.AddDate(0, 0, -config.CompletedRetentionDays),
		failed:    now.AddDate(0, 0, -config.FailedRetentionDays),
		sessions:  now.Add(-config.SessionGrace),
	}
}

func run(ctx context.Context, config Config) error {
	client, err := spanner.NewClient(ctx, config.SpannerDB)
	if err != nil {
		return fmt.Errorf("failed to create Spanner client: %w", err)
	}
	defer client.Close()

	c := newCutoffs(time.Now().UTC(), config)
	log.WithFields(logrus.Fields{
		"completed_cutoff": c.completed.Format(time.RFC3339),
		"failed_cutoff":    c.failed.Format(time.RFC3339),
		"session_cutoff":   c.sessions.Format(time.RFC3339),
		"dry_run":          config.DryRun,
	}).Info("Starting cleanup")

	if config.DryRun {
		return dryRun(ctx, client, c)
	}

	if err := cleanupOutbox(ctx, client, c); err != nil {
		return err
	}
	return cleanupSessions(ctx, client, c)
}

func outboxStatement(prefix string, c cutoffs) spanner.Statement {
	return spanner.Statement{
		SQL: prefix + ` FROM ` + m_outbox.TableName + `
		WHERE (status = @completed AND processed_at < @completedCutoff)
		   OR (status = @failed AND processed_at < @failedCutoff)`,
		Params: map[string]interface{}{
			"completed":       m_outbox.StatusCompleted,
			"failed":          m_outbox.StatusFailed,
			"completedCutoff": c.completed,
			"failedCutoff":    c.failed,
		},
	}
}

func expiredSessions(c cutoffs) *query.Builder {
	return query.From(m_search_session.TableName).
		Where(query.Lt(m_search_session.ExpiresAt, c.sessions))
}

func dryRun(ctx context.Context, client *spanner.Client, c cutoffs) error {
	txn := client.ReadOnlyTransaction()
	defer txn.Close()

	stmt := outboxStatement("SELECT status, COUNT(*) AS count", c)
	stmt.SQL += " GROUP BY status"

	iter := txn.Query(ctx, stmt)
	defer iter.Stop()

	var total int64
	for {
		row, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to query events: %w", err)
		}

		var status string
		var count int64
		if err := row.Columns(&status, &count); err != nil {
			return fmt.Errorf("failed to parse row: %w", err)
		}
		log.Infof("Would delete %d %s events", count, status)
		total += count
	}

	sessions, err := countRows(ctx, txn, expiredSessions(c).Count().Build())
	if err != nil {
		return fmt.Errorf("failed to count sessions: %w", err)
	}

	log.WithFields(logrus.Fields{"events": total, "sessions": sessions}).Info("DRY RUN: nothing deleted")
	log.Info("Run without -dry-run to actually delete rows")
	return nil
}

func countRows(ctx context.Context, txn *spanner.ReadOnlyTransaction, stmt spanner.Statement) (int64, error) {
	iter := txn.Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if err != nil {
		return 0, err
	}
	var count int64
	if err := row.Columns(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func cleanupOutbox(ctx context.Context, client *spanner.Client, c cutoffs) error {
	_, err := client.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		rowCount, err := txn.Update(ctx, outboxStatement("DELETE", c))
		if err != nil {
			return fmt.Errorf("failed to delete events: %w", err)
		}
		log.Infof("Deleted %d outbox events", rowCount)
		return nil
	})
	if err != nil {
		return fmt.Errorf("outbox cleanup transaction failed: %w", err)
	}
	return nil
}

// cleanupSessions removes expired sessions with partitioned DML.
func cleanupSessions(ctx context.Context, client *spanner.Client, c cutoffs) error {
	stmt := spanner.Statement{
		SQL:    "DELETE FROM " + m_search_session.TableName + " WHERE " + m_search_session.ExpiresAt + " < @cutoff",
		Params: map[string]interface{}{"cutoff": c.sessions},
	}
	count, err := client.PartitionedUpdate(ctx, stmt)
	if err != nil {
		return fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	log.Infof("Deleted at least %d expired search sessions", count)
	return nil
}
