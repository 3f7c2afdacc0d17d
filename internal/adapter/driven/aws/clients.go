package aws

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
)

// clientFactory loads and caches regional AWS configs so the repositories
// in this package can share credentials resolution.
type clientFactory struct {
	mu       sync.Mutex
	cfgCache map[string]aws.Config
}

func newClientFactory() *clientFactory {
	return &clientFactory{cfgCache: make(map[string]aws.Config)}
}

func (f *clientFactory) configFor(ctx context.Context, region string) (aws.Config, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if cfg, ok := f.cfgCache[region]; ok {
		return cfg, nil
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config for region %s: %w", region, err)
	}

	f.cfgCache[region] = cfg
	return cfg, nil
}
