package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	grpchealth "github.com/light-bringer/staysearch-service/internal/transport/grpc/health"
)

func main() {
	addr := flag.String("addr", "localhost:9090", "gRPC address of the search service")
	timeout := flag.Duration("timeout", 3*time.Second, "Timeout per check")
	flag.Parse()

	services := flag.Args()
	if len(services) == 0 {
		services = []string{grpchealth.ServiceName, "spanner", "result-cache", "search-api"}
	}

	conn, err := grpc.NewClient(*addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		logrus.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Close()

	client := healthpb.NewHealthClient(conn)

	healthy := true
	for _, service := range services {
		ctx, cancel := context.WithTimeout(context.Background(), *timeout)
		resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
		cancel()

		if err != nil {
			fmt.Printf("%-32s ERROR %v\n", service, err)
			healthy = false
			continue
		}
		fmt.Printf("%-32s %s\n", service, resp.GetStatus())
		if service == grpchealth.ServiceName && resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
			healthy = false
		}
	}

	if !healthy {
		os.Exit(1)
	}
}
