// Package instance names the running process for logs and lock ownership.
package instance

import (
	"os"

	"github.com/totofurniture/furnistore-backend/pkg/env"
)

const fallbackID = "furnistore-0"

// ID returns FURNISTORE_INSTANCE_ID, the legacy WORKER_ID, the hostname, or
// a fixed default, in that order.
func ID() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = fallbackID
	}
	return env.Get("FURNISTORE_INSTANCE_ID", host, "WORKER_ID")
}
