package instance

import "os"

// GetID returns the process instance identifier used in logs and lock ownership.
// PURCHASABLES_INSTANCE_ID wins, then the platform dyno name, then the hostname.
func GetID() string {
	if id := os.Getenv("PURCHASABLES_INSTANCE_ID"); id != "" {
		return id
	}
	if id := os.Getenv("DYNO"); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}
