// Package config defines the runtime configuration of the avatar resolver:
// gateways, response cache, marketplace API keys, URL deny-list, content
// limits, the optional IPFS node and the Ethereum RPC endpoint. It also
// provides validation, defaulting and loading from file or environment.
package config

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	// DefaultCacheSize is the number of cached responses when caching is on.
	DefaultCacheSize = 512
	// DefaultMaxContentLength bounds every fetched body (50 MiB).
	DefaultMaxContentLength int64 = 50 << 20
)

// Known marketplace names accepted in APIKey.
var Marketplaces = []string{"opensea", "coinbase", "looksrare", "x2y2"}

// Config holds all resolver settings. Use Validate to fill implicit defaults
// and to check field formats.
type Config struct {
	// RPCAddr is the Ethereum RPC/WS endpoint URL. Required by avatar.NewFromConfig.
	RPCAddr string `json:"rpc_addr" yaml:"rpc_addr" mapstructure:"rpc_addr" validate:"omitempty,url"`
	// Registry overrides the ENS registry address.
	Registry string `json:"registry" yaml:"registry" mapstructure:"registry" validate:"omitempty,eth_addr"`
	// Cache is the response cache TTL in seconds. Zero disables caching.
	Cache int `json:"cache" yaml:"cache" mapstructure:"cache" validate:"gte=0"`
	// CacheSize is the number of cached responses. Default: 512.
	CacheSize int `json:"cache_size" yaml:"cache_size" mapstructure:"cache_size" validate:"gte=0"`
	// IPFS is the gateway base URL for IPFS content. Default: https://ipfs.io
	IPFS string `json:"ipfs" yaml:"ipfs" mapstructure:"ipfs" validate:"omitempty,http_url"`
	// Arweave is the gateway base URL for Arweave content. Default: https://arweave.net
	Arweave string `json:"arweave" yaml:"arweave" mapstructure:"arweave" validate:"omitempty,http_url"`
	// IPFSAPI is an optional Kubo RPC endpoint used to read IPFS documents.
	IPFSAPI string `json:"ipfs_api" yaml:"ipfs_api" mapstructure:"ipfs_api" validate:"omitempty,http_url"`
	// APIKey maps marketplace names (opensea, coinbase, looksrare, x2y2) to API keys.
	APIKey map[string]string `json:"api_key" yaml:"api_key" mapstructure:"api_key"`
	// URLDenyList holds hostnames whose content is never returned.
	URLDenyList []string `json:"url_deny_list" yaml:"url_deny_list" mapstructure:"url_deny_list" validate:"dive,hostname"`
	// MaxContentLength bounds fetched bodies in bytes. Default: 50 MiB.
	MaxContentLength int64 `json:"max_content_length" yaml:"max_content_length" mapstructure:"max_content_length" validate:"gte=0"`
	// Debug enables verbose logging.
	Debug bool `json:"debug" yaml:"debug" mapstructure:"debug"`
	// Timeouts configures per-operation timeouts. See Timeouts.WithDefaults for defaults.
	Timeouts Timeouts `json:"timeouts" yaml:"timeouts" mapstructure:"timeouts"`

	// HTTPClient replaces the HTTP client used for every fetch.
	HTTPClient *http.Client `json:"-" yaml:"-" mapstructure:"-"`
	// Transport sets the round tripper of the default HTTP client.
	Transport http.RoundTripper `json:"-" yaml:"-" mapstructure:"-"`
}

// Timeouts controls operation deadlines.
// Zero values will be replaced by sane defaults in WithDefaults.
type Timeouts struct {
	Dial      time.Duration `json:"dial" yaml:"dial" mapstructure:"dial"`                   // Web3 dial/connect
	HTTP      time.Duration `json:"http" yaml:"http" mapstructure:"http"`                   // one HTTP request
	ChainRead time.Duration `json:"chain_read" yaml:"chain_read" mapstructure:"chain_read"` // eth_call
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate normalizes the configuration by applying implicit defaults and
// checks field formats. Gateway URLs lose their trailing slash, deny-list
// hosts and marketplace names are lower-cased.
func (c *Config) Validate() error {
	if c.CacheSize == 0 {
		c.CacheSize = DefaultCacheSize
	}
	if c.MaxContentLength == 0 {
		c.MaxContentLength = DefaultMaxContentLength
	}
	c.IPFS = strings.TrimRight(strings.TrimSpace(c.IPFS), "/")
	c.Arweave = strings.TrimRight(strings.TrimSpace(c.Arweave), "/")
	c.IPFSAPI = strings.TrimRight(strings.TrimSpace(c.IPFSAPI), "/")

	for i, host := range c.URLDenyList {
		c.URLDenyList[i] = strings.ToLower(strings.TrimSpace(host))
	}
	if len(c.APIKey) > 0 {
		keys := make(map[string]string, len(c.APIKey))
		for name, key := range c.APIKey {
			keys[strings.ToLower(strings.TrimSpace(name))] = key
		}
		c.APIKey = keys
	}

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	for _, gw := range []string{c.IPFS, c.Arweave} {
		if gw == "" {
			continue
		}
		if u, err := url.Parse(gw); err != nil || u.Host == "" {
			return fmt.Errorf("invalid gateway %q", gw)
		}
	}
	return nil
}

// CacheTTL returns Cache as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache) * time.Second
}

// WithDefaults returns a copy of t with zero values replaced by defaults:
//
//	Dial:      5s
//	HTTP:      30s
//	ChainRead: 12s
func (t Timeouts) WithDefaults() Timeouts {
	tt := t
	if tt.Dial == 0 {
		tt.Dial = 5 * time.Second
	}
	if tt.HTTP == 0 {
		tt.HTTP = 30 * time.Second
	}
	if tt.ChainRead == 0 {
		tt.ChainRead = 12 * time.Second
	}
	return tt
}
