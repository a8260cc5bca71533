package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// WriteTextfile dumps the default registry in the node exporter textfile format.
func WriteTextfile(path string) error {
	if path == "" {
		return errors.New("metrics: empty textfile path")
	}
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
