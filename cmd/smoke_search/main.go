package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

type client struct {
	base string
	http *http.Client
}

func (c *client) call(method, path string, body, out interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequest(method, c.base+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s: %d %s", method, path, resp.StatusCode, data)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

type view struct {
	Listings []struct {
		ID    string          `json:"id"`
		Name  string          `json:"name"`
		Price json.RawMessage `json:"price"`
	} `json:"listings"`
	TotalMatched int  `json:"total_matched"`
	HasMore      bool `json:"has_more"`
	Page         int  `json:"page"`
}

func main() {
	base := flag.String("addr", "http://localhost:8080", "Base URL of the search service")
	destination := flag.String("destination", "Goa", "Destination to search")
	flag.Parse()

	c := &client{base: *base, http: &http.Client{Timeout: 60 * time.Second}}
	checkIn := time.Now().AddDate(0, 1, 0)

	var started struct {
		SessionID string `json:"session_id"`
		View      view   `json:"view"`
		Demo      bool   `json:"demo"`
	}
	err := c.call(http.MethodPost, "/api/v1/searches", map[string]interface{}{
		"destination": *destination,
		"check_in":    checkIn.Format("2006-01-02"),
		"check_out":   checkIn.AddDate(0, 0, 2).Format("2006-01-02"),
		"adults":      2,
	}, &started)
	if err != nil {
		logrus.Fatalf("Failed to start search: %v", err)
	}
	id := started.SessionID
	fmt.Printf("Started search %s: %d results (demo: %v)\n", id, started.View.TotalMatched, started.Demo)

	var v view
	if err := c.call(http.MethodPatch, "/api/v1/searches/"+id+"/filters", map[string]interface{}{"stars": []int{4, 5}}, &v); err != nil {
		logrus.Fatalf("Failed to apply filters: %v", err)
	}
	fmt.Printf("4-5 stars: %d results\n", v.TotalMatched)

	if err := c.call(http.MethodPut, "/api/v1/searches/"+id+"/sort", map[string]string{"sort": "price_low"}, &v); err != nil {
		logrus.Fatalf("Failed to change sort: %v", err)
	}
	if len(v.Listings) > 0 {
		fmt.Printf("Cheapest: %s at %s\n", v.Listings[0].Name, v.Listings[0].Price)
	}

	if v.HasMore {
		var more view
		if err := c.call(http.MethodPost, "/api/v1/searches/"+id+"/pages", nil, &more); err != nil {
			logrus.Fatalf("Failed to load more: %v", err)
		}
		fmt.Printf("Loaded page %d with %d more listings\n", more.Page, len(more.Listings))
	}

	if len(v.Listings) > 0 {
		if err := c.call(http.MethodPost, "/api/v1/searches/"+id+"/selection", map[string]string{"listing_id": v.Listings[0].ID}, nil); err != nil {
			logrus.Fatalf("Failed to select listing: %v", err)
		}
		fmt.Printf("Selected %s\n", v.Listings[0].ID)
	}

	fmt.Println("\nSearch events recorded. Inspect them with:")
	fmt.Printf("  HTTP: curl '%s/api/v1/events?aggregate_id=%s'\n", *base, id)
	fmt.Println("  gRPC: grpcurl -plaintext localhost:9090 grpc.health.v1.Health/Check")
}
