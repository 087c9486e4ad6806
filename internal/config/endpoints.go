package config

import (
	"os"

	"modelcatalog/internal/core"

	"github.com/bytedance/sonic"
)

// endpointsFile is the on-disk shape of endpoints.json.
type endpointsFile struct {
	Endpoints []core.EndpointConfig `json:"endpoints"`
}

// LoadEndpoints reads the custom-endpoint configurations. A missing file or
// an `endpoints` field that is not a list both degrade to zero custom
// endpoints; the service then serves defaults only.
func LoadEndpoints(path string, logger core.Logger) []core.EndpointConfig {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path from config, not user input
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("No endpoints config at %s, serving defaults only", path)
		} else {
			logger.Warn("Failed to read endpoints config %s: %v, serving defaults only", path, err)
		}
		return nil
	}

	var file endpointsFile
	if err := sonic.Unmarshal(data, &file); err == nil && file.Endpoints != nil {
		logger.Info("Loaded %d custom endpoints from %s", len(file.Endpoints), path)
		return file.Endpoints
	}

	// Tolerate a bare top-level array as well.
	var bare []core.EndpointConfig
	if err := sonic.Unmarshal(data, &bare); err == nil {
		logger.Info("Loaded %d custom endpoints from %s", len(bare), path)
		return bare
	}

	logger.Warn("Endpoints config %s is not a list, treating as zero custom endpoints", path)
	return nil
}
