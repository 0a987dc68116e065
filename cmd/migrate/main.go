package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	database "cloud.google.com/go/spanner/admin/database/apiv1"
	"cloud.google.com/go/spanner/admin/database/apiv1/databasepb"
	instance "cloud.google.com/go/spanner/admin/instance/apiv1"
	"cloud.google.com/go/spanner/admin/instance/apiv1/instancepb"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	projectID  = flag.String("project", getEnvOrDefault("SPANNER_PROJECT_ID", "test-project"), "GCP project ID")
	instanceID = flag.String("instance", getEnvOrDefault("SPANNER_INSTANCE_ID", "dev-instance"), "Spanner instance ID")
	databaseID = flag.String("database", getEnvOrDefault("SPANNER_DATABASE_ID", "staysearch-db"), "Spanner database ID")
	migrateDir = flag.String("migrations", "migrations", "Directory containing migration SQL files")
	dryRun     = flag.Bool("dry-run", false, "Print pending DDL without applying it")
)

var log = logrus.WithField("cmd", "migrate")

func main() {
	flag.Parse()

	if host := os.Getenv("SPANNER_EMULATOR_HOST"); host != "" {
		log.Infof("Using Spanner emulator at %s", host)
	}

	if err := run(context.Background()); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Info("Migrations completed successfully")
}

func run(ctx context.Context) error {
	if err := ensureInstance(ctx); err != nil {
		return fmt.Errorf("failed to ensure instance: %w", err)
	}

	adminClient, err := database.NewDatabaseAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create admin client: %w", err)
	}
	defer adminClient.Close()

	if err := ensureDatabase(ctx, adminClient); err != nil {
		return fmt.Errorf("failed to ensure database: %w", err)
	}
	return applyMigrations(ctx, adminClient)
}

func instancePath() string {
	return fmt.Sprintf("projects/%s/instances/%s", *projectID, *instanceID)
}

func databasePath() string {
	return fmt.Sprintf("%s/databases/%s", instancePath(), *databaseID)
}

func ensureInstance(ctx context.Context) error {
	instanceAdmin, err := instance.NewInstanceAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create instance admin client: %w", err)
	}
	defer instanceAdmin.Close()

	_, err = instanceAdmin.GetInstance(ctx, &instancepb.GetInstanceRequest{Name: instancePath()})
	switch {
	case err == nil:
		log.WithField("instance", *instanceID).Info("Instance already exists")
		return nil
	case status.Code(err) != codes.NotFound:
		log.WithError(err).Warn("Unexpected error checking instance")
		return nil
	}

	log.WithField("instance", *instanceID).Info("Creating instance")
	op, err := instanceAdmin.CreateInstance(ctx, &instancepb.CreateInstanceRequest{
		Parent:     fmt.Sprintf("projects/%s", *projectID),
		InstanceId: *instanceID,
		Instance: &instancepb.Instance{
			Config:      fmt.Sprintf("projects/%s/instanceConfigs/emulator-config", *projectID),
			DisplayName: "Stay Search Development",
			NodeCount:   1,
		},
	})
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil
		}
		return fmt.Errorf("failed to create instance: %w", err)
	}
	// the emulator may complete the operation before Wait is called
	if _, err := op.Wait(ctx); err != nil && status.Code(err) != codes.AlreadyExists {
		log.WithError(err).Warn("Instance creation did not report completion")
	}
	return nil
}

func ensureDatabase(ctx context.Context, adminClient *database.DatabaseAdminClient) error {
	_, err := adminClient.GetDatabase(ctx, &databasepb.GetDatabaseRequest{Name: databasePath()})
	switch {
	case err == nil:
		log.WithField("database", *databaseID).Info("Database already exists")
		return nil
	case status.Code(err) != codes.NotFound:
		if os.Getenv("SPANNER_EMULATOR_HOST") != "" {
			log.WithError(err).Warn("Proceeding with database (emulator mode)")
			return nil
		}
		return fmt.Errorf("failed to check database: %w", err)
	}

	log.WithField("database", *databaseID).Info("Creating database")
	op, err := adminClient.CreateDatabase(ctx, &databasepb.CreateDatabaseRequest{
		Parent:          instancePath(),
		CreateStatement: fmt.Sprintf("CREATE DATABASE `%s`", *databaseID),
	})
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil
		}
		return fmt.Errorf("failed to create database: %w", err)
	}
	if _, err := op.Wait(ctx); err != nil {
		return fmt.Errorf("failed to wait for database creation: %w", err)
	}
	return nil
}

func applyMigrations(ctx context.Context, adminClient *database.DatabaseAdminClient) error {
	files, err := filepath.Glob(filepath.Join(*migrateDir, "*.sql"))
	if err != nil {
		return fmt.Errorf("failed to list migration files: %w", err)
	}
	if len(files) == 0 {
		log.Warnf("No migration files found in %s", *migrateDir)
		return nil
	}

	ddl, err := adminClient.GetDatabaseDdl(ctx, &databasepb.GetDatabaseDdlRequest{Database: databasePath()})
	if err != nil {
		return fmt.Errorf("failed to read current schema: %w", err)
	}
	existing := existingObjects(ddl.GetStatements())

	for _, file := range files {
		name := filepath.Base(file)
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file, err)
		}

		pending := pendingStatements(splitDDLStatements(string(content)), existing)
		entry := log.WithFields(logrus.Fields{"migration": name, "statements": len(pending)})
		if len(pending) == 0 {
			entry.Info("Already applied")
			continue
		}
		if *dryRun {
			for _, stmt := range pending {
				fmt.Printf("%s;\n\n", stmt)
			}
			entry.Info("Pending (dry run)")
			continue
		}

		op, err := adminClient.UpdateDatabaseDdl(ctx, &databasepb.UpdateDatabaseDdlRequest{
			Database:   databasePath(),
			Statements: pending,
		})
		if err != nil {
			return fmt.Errorf("failed to start DDL update for %s: %w", name, err)
		}
		if err := op.Wait(ctx); err != nil {
			return fmt.Errorf("failed to apply DDL for %s: %w", name, err)
		}
		for _, stmt := range pending {
			if obj := objectName(stmt); obj != "" {
				existing[obj] = true
			}
		}
		entry.Info("Applied")
	}
	return nil
}

var createObjectRe = regexp.MustCompile(`(?i)^CREATE\s+(?:UNIQUE\s+|NULL_FILTERED\s+)*(TABLE|INDEX)\s+` + "`?" + `(\w+)`)

// objectName returns "table:name" or "index:name" for CREATE statements.
func objectName(stmt string) string {
	m := createObjectRe.FindStringSubmatch(strings.TrimSpace(stmt))
	if m == nil {
		return ""
	}
	return strings.ToLower(m[1]) + ":" + strings.ToLower(m[2])
}

func existingObjects(statements []string) map[string]bool {
	out := make(map[string]bool, len(statements))
	for _, stmt := range statements {
		if obj := objectName(stmt); obj != "" {
			out[obj] = true
		}
	}
	return out
}

// pendingStatements drops CREATE statements for objects that already exist.
// Other statements are always applied.
func pendingStatements(statements []string, existing map[string]bool) []string {
	var out []string
	for _, stmt := range statements {
		if obj := objectName(stmt); obj != "" && existing[obj] {
			continue
		}
		out = append(out, stmt)
	}
	return out
}

func splitDDLStatements(content string) []string {
	var cleaned []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		cleaned = append(cleaned, line)
	}

	var result []string
	for _, stmt := range strings.Split(strings.Join(cleaned, "\n"), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			result = append(result, stmt)
		}
	}
	return result
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
