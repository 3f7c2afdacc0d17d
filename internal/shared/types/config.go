package types

import (
	"fmt"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Default values applied when neither the config file nor the environment
// sets a key.
const (
	DefaultTargetRegion    = "us-east-1"
	DefaultBedrockRegion   = "us-east-1"
	DefaultDimensionKey    = "SERVICE"
	DefaultBedrockModelID  = "anthropic.claude-3-haiku-20240307-v1:0"
	DefaultExchangeRate    = 150
	DefaultTopContributors = 5
)

// Config is the full configuration of a run. It is resolved once at
// startup (file, then environment overrides) and immutable afterwards; the
// workflows receive it by value and never consult ambient state.
type Config struct {
	NewRelicLicenseKey string `json:"new_relic_license_key" yaml:"new_relic_license_key" toml:"new_relic_license_key"`
	NewRelicAccountID  string `json:"new_relic_account_id" yaml:"new_relic_account_id" toml:"new_relic_account_id"`

	TargetRegion        string `json:"target_region" yaml:"target_region" toml:"target_region"`
	GroupByDimensionKey string `json:"group_by_dimension_key" yaml:"group_by_dimension_key" toml:"group_by_dimension_key"`
	GroupByTagKey       string `json:"group_by_tag_key" yaml:"group_by_tag_key" toml:"group_by_tag_key"`

	BedrockModelID string `json:"bedrock_model_id" yaml:"bedrock_model_id" toml:"bedrock_model_id"`
	BedrockRegion  string `json:"bedrock_region" yaml:"bedrock_region" toml:"bedrock_region"`

	// JPYExchangeRate converts USD amounts to JPY for display attributes.
	// The USD amounts remain the source of truth.
	JPYExchangeRate decimal.Decimal `json:"jpy_exchange_rate" yaml:"jpy_exchange_rate" toml:"jpy_exchange_rate"`

	// TopContributors caps the ranking embedded in the reasoning prompt.
	TopContributors int `json:"top_contributors" yaml:"top_contributors" toml:"top_contributors"`

	ReportName string   `json:"report_name" yaml:"report_name" toml:"report_name"`
	ReportType []string `json:"report_type" yaml:"report_type" toml:"report_type"`
	Dir        string   `json:"dir" yaml:"dir" toml:"dir"`
}

// NewConfig returns a Config with defaults applied.
func NewConfig() *Config {
	return &Config{
		TargetRegion:        DefaultTargetRegion,
		GroupByDimensionKey: DefaultDimensionKey,
		BedrockModelID:      DefaultBedrockModelID,
		BedrockRegion:       DefaultBedrockRegion,
		JPYExchangeRate:     decimal.NewFromInt(DefaultExchangeRate),
		TopContributors:     DefaultTopContributors,
	}
}

// UnmarshalYAML decodes the config from a YAML document. yaml.v3 cannot
// decode a scalar into decimal.Decimal, so the exchange rate goes through
// a string intermediate; every other key decodes onto the struct that
// carries it. Keys absent from the document keep their current values.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	var aux struct {
		NewRelicLicenseKey  *string  `yaml:"new_relic_license_key"`
		NewRelicAccountID   *string  `yaml:"new_relic_account_id"`
		TargetRegion        *string  `yaml:"target_region"`
		GroupByDimensionKey *string  `yaml:"group_by_dimension_key"`
		GroupByTagKey       *string  `yaml:"group_by_tag_key"`
		BedrockModelID      *string  `yaml:"bedrock_model_id"`
		BedrockRegion       *string  `yaml:"bedrock_region"`
		JPYExchangeRate     *string  `yaml:"jpy_exchange_rate"`
		TopContributors     *int     `yaml:"top_contributors"`
		ReportName          *string  `yaml:"report_name"`
		ReportType          []string `yaml:"report_type"`
		Dir                 *string  `yaml:"dir"`
	}
	if err := value.Decode(&aux); err != nil {
		return err
	}

	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setString(&c.NewRelicLicenseKey, aux.NewRelicLicenseKey)
	setString(&c.NewRelicAccountID, aux.NewRelicAccountID)
	setString(&c.TargetRegion, aux.TargetRegion)
	setString(&c.GroupByDimensionKey, aux.GroupByDimensionKey)
	setString(&c.GroupByTagKey, aux.GroupByTagKey)
	setString(&c.BedrockModelID, aux.BedrockModelID)
	setString(&c.BedrockRegion, aux.BedrockRegion)
	setString(&c.ReportName, aux.ReportName)
	setString(&c.Dir, aux.Dir)

	if aux.JPYExchangeRate != nil {
		rate, err := decimal.NewFromString(*aux.JPYExchangeRate)
		if err != nil {
			return fmt.Errorf("invalid jpy_exchange_rate %q: %w", *aux.JPYExchangeRate, err)
		}
		c.JPYExchangeRate = rate
	}
	if aux.TopContributors != nil {
		c.TopContributors = *aux.TopContributors
	}
	if aux.ReportType != nil {
		c.ReportType = aux.ReportType
	}

	return nil
}

// ApplyEnv overlays the environment variables the job has always been
// driven by onto the config. Environment wins over file values.
func (c *Config) ApplyEnv() error {
	setString := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	setString(&c.NewRelicLicenseKey, "NEW_RELIC_LICENSE_KEY")
	setString(&c.NewRelicAccountID, "NEW_RELIC_ACCOUNT_ID")
	setString(&c.TargetRegion, "TARGET_REGION")
	setString(&c.GroupByDimensionKey, "GROUP_BY_DIMENSION_KEY")
	setString(&c.GroupByTagKey, "GROUP_BY_TAG_KEY")
	setString(&c.BedrockModelID, "BEDROCK_MODEL_ID")
	setString(&c.BedrockRegion, "BEDROCK_REGION")

	if v, ok := os.LookupEnv("JPY_EXCHANGE_RATE"); ok && v != "" {
		rate, err := decimal.NewFromString(v)
		if err != nil {
			return fmt.Errorf("invalid JPY_EXCHANGE_RATE %q: %w", v, err)
		}
		c.JPYExchangeRate = rate
	}

	if v, ok := os.LookupEnv("TOP_CONTRIBUTORS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid TOP_CONTRIBUTORS %q: %w", v, err)
		}
		c.TopContributors = n
	}

	return nil
}

// Validate checks the invariants the workflows rely on.
func (c *Config) Validate() error {
	if c.NewRelicLicenseKey == "" {
		return ErrMissingLicenseKey
	}
	if c.NewRelicAccountID == "" {
		return ErrMissingAccountID
	}
	if !c.JPYExchangeRate.IsPositive() {
		return fmt.Errorf("jpy_exchange_rate must be > 0, got %s", c.JPYExchangeRate)
	}
	if c.TopContributors <= 0 {
		return fmt.Errorf("top_contributors must be > 0, got %d", c.TopContributors)
	}
	if c.GroupByDimensionKey == "" && c.GroupByTagKey == "" {
		return fmt.Errorf("either group_by_dimension_key or group_by_tag_key must be set")
	}
	return nil
}
