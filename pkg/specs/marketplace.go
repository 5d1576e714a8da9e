package specs

import (
	"net/url"
	"regexp"
	"strings"
)

// idPlaceholder matches the ERC-1155 {id} placeholder with an optional 0x in front.
var idPlaceholder = regexp.MustCompile(`(?:0x)?\{id\}`)

// Marketplace describes how a marketplace API deviates from the token standards.
type Marketplace struct {
	Name string
	// Host is matched against the locator hostname.
	Host string
	// RawTokenID substitutes the token id unmodified instead of the padded hex form.
	RawTokenID bool
	// APIKeyHeader carries the configured API key.
	APIKeyHeader string
}

// Marketplaces is the table of known marketplace APIs.
var Marketplaces = []Marketplace{
	{Name: "opensea", Host: "api.opensea.io", RawTokenID: true, APIKeyHeader: "X-API-KEY"},
	{Name: "coinbase", Host: "api.nft.coinbase.com", APIKeyHeader: "X-API-KEY"},
	{Name: "looksrare", Host: "api.looksrare.org", APIKeyHeader: "X-Looks-Api-Key"},
	{Name: "x2y2", Host: "api.x2y2.io", APIKeyHeader: "X-API-KEY"},
}

// MarketplaceFor returns the marketplace serving locator.
func MarketplaceFor(locator string) (Marketplace, bool) {
	u, err := url.Parse(locator)
	if err != nil {
		return Marketplace{}, false
	}
	host := strings.ToLower(u.Hostname())
	for _, m := range Marketplaces {
		if host == m.Host {
			return m, true
		}
	}
	return Marketplace{}, false
}

// substituteID replaces the first {id} placeholder of locator with id.
func substituteID(locator, id string) string {
	loc := idPlaceholder.FindStringIndex(locator)
	if loc == nil {
		return locator
	}
	return locator[:loc[0]] + id + locator[loc[1]:]
}
