package main

import (
	"bufio"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
)

type WatchStreamCommand struct{}

func (c *WatchStreamCommand) Name() string {
	return "watch-stream"
}

func (c *WatchStreamCommand) Description() string {
	return "Print events from the public or host stream of a running server"
}

func (c *WatchStreamCommand) Run(args []string) error {
	fs := flag.NewFlagSet("watch-stream", flag.ContinueOnError)
	host := fs.Bool("host", false, "Watch the host stream (needs API_KEY)")
	limit := fs.Int("n", 10, "Stop after this many events, 0 for no limit")
	types := fs.String("types", "", "Comma-separated event types to keep")
	if err := fs.Parse(args); err != nil {
		return err
	}

	url := apiURL() + "/api/v1/stream"
	if *host {
		url = apiURL() + "/api/v1/admin/stream"
	}
	if *types != "" {
		url += "?types=" + *types
	}

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if key := os.Getenv("API_KEY"); key != "" {
		req.Header.Set("X-API-Key", key)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		PrintError("Failed to connect: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		PrintError("Unexpected status: %s", resp.Status)
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}

	PrintHeader(fmt.Sprintf("Watching %s", url))

	seen := 0
	var eventType string
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			eventType = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			PrintInfo("%s %s", eventType, strings.TrimPrefix(line, "data: "))
			seen++
			if *limit > 0 && seen >= *limit {
				return nil
			}
		}
	}
	return scanner.Err()
}
