package nft

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/singnet/ens-avatar-go/pkg/model"
)

const (
	// DefaultSeparator separates the reference segments in CAIP form.
	DefaultSeparator = "/"

	didPrefix       = "did:nft:"
	eipNamespaceTag = "eip155"
)

var referencePattern = regexp.MustCompile(`(?i)eip155:`)

// AssetReference identifies a single token on a chain.
type AssetReference struct {
	ChainID         int64
	Namespace       string
	ContractAddress string
	TokenID         string
}

// IsReference reports whether value looks like a tokenized-asset reference
// (case-insensitive "eip155:" marker) and should be parsed rather than treated
// as a plain URI.
func IsReference(value string) bool {
	return referencePattern.MatchString(value)
}

// Parse parses uri using DefaultSeparator.
func Parse(uri string) (AssetReference, error) {
	return ParseWithSeparator(uri, DefaultSeparator)
}

// ParseWithSeparator parses uri into an AssetReference. Every failure is a
// model.KindParsing error naming the missing field and echoing the normalised
// input; no partially filled reference is ever returned.
func ParseWithSeparator(uri, separator string) (AssetReference, error) {
	if uri == "" {
		return AssetReference{}, parsingError("parameter URI cannot be empty", uri)
	}
	if separator == "" {
		separator = DefaultSeparator
	}

	if strings.HasPrefix(uri, didPrefix) {
		uri = strings.ReplaceAll(strings.TrimPrefix(uri, didPrefix), "_", separator)
	}

	segments := strings.Split(uri, separator)
	reference := segment(segments, 0)
	assetNamespace := segment(segments, 1)
	tokenID := segment(segments, 2)

	eipNamespace, chainID, _ := strings.Cut(reference, ":")
	ercNamespace, contractAddress, _ := strings.Cut(assetNamespace, ":")

	switch {
	case !strings.EqualFold(eipNamespace, eipNamespaceTag):
		return AssetReference{}, parsingError("Only EIP-155 is supported", uri)
	case chainID == "":
		return AssetReference{}, parsingError("chainID not found", uri)
	case contractAddress == "":
		return AssetReference{}, parsingError("contractAddress not found", uri)
	case ercNamespace == "":
		return AssetReference{}, parsingError("erc namespace not found", uri)
	case tokenID == "":
		return AssetReference{}, parsingError("tokenID not found", uri)
	}

	id, err := strconv.ParseInt(chainID, 10, 64)
	if err != nil {
		return AssetReference{}, parsingError("chainID is not a number", uri)
	}

	return AssetReference{
		ChainID:         id,
		Namespace:       strings.ToLower(ercNamespace),
		ContractAddress: contractAddress,
		TokenID:         tokenID,
	}, nil
}

func segment(segments []string, i int) string {
	if i < len(segments) {
		return segments[i]
	}
	return ""
}

func parsingError(message, input string) error {
	return model.NewError(model.KindParsing, message, input)
}
