// Command healthcheck probes a local commentd and exits non-zero unless the
// service reports itself healthy. It is meant for container HEALTHCHECK use.
package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/ericfisherdev/commentbox/internal/config"
)

const probeTimeout = 2 * time.Second

func main() {
	os.Exit(check(context.Background(), "http://"+config.DialAddr(os.Getenv("COMMENTBOX_LISTEN_ADDR"))))
}

// check returns 0 when baseURL's health endpoint answers 200 with status "ok".
func check(ctx context.Context, baseURL string) int {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api/v1/health", nil)
	if err != nil {
		return 1
	}

	resp, err := (&http.Client{Timeout: probeTimeout}).Do(req)
	if err != nil {
		return 1
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 1
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4<<10)).Decode(&body); err != nil || body.Status != "ok" {
		return 1
	}

	return 0
}
