package model

import (
	"strings"
)

// MediaKey identifies which text record of a name is read.
type MediaKey string

const (
	// MediaKeyAvatar is the profile picture record.
	MediaKeyAvatar MediaKey = "avatar"
	// MediaKeyHeader is the profile header image record.
	MediaKeyHeader MediaKey = "header"
	// MediaKeyBanner is accepted as an alias-style record for header images.
	MediaKeyBanner MediaKey = "banner"
)

// IsHeader reports whether k belongs to the header-style records.
func (k MediaKey) IsHeader() bool {
	return k == MediaKeyHeader || k == MediaKeyBanner
}

func (k MediaKey) String() string {
	return string(k)
}

// Recognised metadata keys.
const (
	KeyImage     = "image"
	KeyImageURL  = "image_url"
	KeyImageData = "image_data"
	KeyURI       = "uri"
	KeyHostMeta  = "host_meta"
	KeyIsOwner   = "is_owner"
)

// Metadata is an open-ended metadata document as retrieved from chain or from
// an off-chain manifest. The resolver augments it with KeyURI, KeyHostMeta and
// KeyIsOwner.
type Metadata map[string]any

// Image returns the first non-empty string value of image, image_url and
// image_data, in that order.
func (m Metadata) Image() (string, bool) {
	for _, key := range []string{KeyImage, KeyImageURL, KeyImageData} {
		if v, ok := m[key].(string); ok && strings.TrimSpace(v) != "" {
			return v, true
		}
	}
	return "", false
}

// HostMeta returns the provenance block if the document came from a
// tokenized asset.
func (m Metadata) HostMeta() (*HostMeta, bool) {
	switch v := m[KeyHostMeta].(type) {
	case *HostMeta:
		return v, v != nil
	case HostMeta:
		return &v, true
	}
	return nil, false
}

// IsOwner returns the ownership flag, false when absent.
func (m Metadata) IsOwner() bool {
	v, _ := m[KeyIsOwner].(bool)
	return v
}

// Merge copies every key of other into m, overriding existing values.
func (m Metadata) Merge(other Metadata) Metadata {
	for k, v := range other {
		m[k] = v
	}
	return m
}

// HostMeta describes the tokenized asset a metadata document was resolved from.
type HostMeta struct {
	ChainID         int64  `json:"chain_id"`
	Namespace       string `json:"namespace"`
	ContractAddress string `json:"contract_address"`
	TokenID         string `json:"token_id"`
	ReferenceURL    string `json:"reference_url"`
}
