package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"

	"github.com/nodepulse/nodepulse/types"
)

// BPEntry describes one block producer host. BaseURL always ends with a
// trailing slash so endpoint paths can be appended directly.
type BPEntry struct {
	Title   string `mapstructure:"title"`
	BaseURL string `mapstructure:"base_url"`
	Role    string `mapstructure:"role"`
}

// RPCEntry describes one JSON-RPC host.
type RPCEntry struct {
	Title string `mapstructure:"title"`
	URL   string `mapstructure:"url"`
}

// ExplorerEntry describes one explorer front-end plus its indexing API.
type ExplorerEntry struct {
	Title   string `mapstructure:"title"`
	URL     string `mapstructure:"url"`
	APIBase string `mapstructure:"api_base"`
}

// Network groups the probe targets of one network environment. Map keys are
// the stable node keys used in card identities.
type Network struct {
	BPs       map[string]BPEntry       `mapstructure:"bps"`
	RPCs      map[string]RPCEntry      `mapstructure:"rpcs"`
	Explorers map[string]ExplorerEntry `mapstructure:"explorers"`
}

// LoadNetworks reads the network registry file (yaml or json) and validates
// every entry. The probe layer consumes entries as-is and performs no
// further validation.
func LoadNetworks(path string) (map[string]Network, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, types.NewConfigError(fmt.Sprintf("failed to read networks file %s", path), err)
	}

	var networks map[string]Network
	if err := v.Unmarshal(&networks); err != nil {
		return nil, types.NewConfigError("failed to parse networks file", err)
	}

	for netKey, network := range networks {
		for nodeKey, bp := range network.BPs {
			if err := validateURL(bp.BaseURL, fmt.Sprintf("%s.bps.%s.base_url", netKey, nodeKey)); err != nil {
				return nil, err
			}
			if !strings.HasSuffix(bp.BaseURL, "/") {
				return nil, types.NewValidationError(
					fmt.Sprintf("%s.bps.%s.base_url", netKey, nodeKey), "must end with a trailing slash")
			}
		}
		for nodeKey, rpc := range network.RPCs {
			if err := validateURL(rpc.URL, fmt.Sprintf("%s.rpcs.%s.url", netKey, nodeKey)); err != nil {
				return nil, err
			}
		}
		for nodeKey, exp := range network.Explorers {
			if err := validateURL(exp.APIBase, fmt.Sprintf("%s.explorers.%s.api_base", netKey, nodeKey)); err != nil {
				return nil, err
			}
		}
	}

	return networks, nil
}

func validateURL(raw, field string) error {
	if len(raw) == 0 {
		return types.NewValidationError(field, "required field is missing")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return types.NewValidationError(field, fmt.Sprintf("invalid URL format: %s", raw))
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return types.NewValidationError(field, fmt.Sprintf("must use http or https scheme, got: %s", u.Scheme))
	}
	return nil
}
