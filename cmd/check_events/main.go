package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/sirupsen/logrus"

	"github.com/light-bringer/staysearch-service/internal/app/search/queries/list_events"
	"github.com/light-bringer/staysearch-service/internal/app/search/repo"
	"github.com/light-bringer/staysearch-service/internal/config"
)

func main() {
	var (
		session   = flag.String("session", "", "Only events of this search session")
		eventType = flag.String("type", "", "Only events of this type, e.g. search.filters_applied")
		status    = flag.String("status", "", "Only events with this status")
		limit     = flag.Int("limit", 10, "Maximum number of events")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	client, err := spanner.NewClient(ctx, cfg.SpannerDB)
	if err != nil {
		logrus.Fatalf("Failed to create client: %v", err)
	}
	defer client.Close()

	req := &list_events.Request{Limit: *limit}
	if *session != "" {
		req.AggregateID = session
	}
	if *eventType != "" {
		req.EventType = eventType
	}
	if *status != "" {
		req.Status = status
	}

	resp, err := list_events.NewQuery(repo.NewEventsReadModel(client)).Execute(ctx, req)
	if err != nil {
		logrus.Fatalf("Failed to list events: %v", err)
	}

	if len(resp.Events) == 0 {
		fmt.Println("No events found!")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CREATED\tTYPE\tSESSION\tSTATUS\tEVENT")
	for _, e := range resp.Events {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", e.CreatedAt.Format(time.RFC3339), e.EventType, e.AggregateID, e.Status, e.EventID)
	}
	_ = w.Flush()

	fmt.Printf("\nShowing %d of %d events\n", len(resp.Events), resp.TotalCount)
}
