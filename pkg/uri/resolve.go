package uri

import (
	"net/url"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

const (
	// DefaultIPFSGateway is used when no IPFS gateway is configured.
	DefaultIPFSGateway = "https://ipfs.io"
	// DefaultArweaveGateway is used when no Arweave gateway is configured.
	DefaultArweaveGateway = "https://arweave.net"

	ipfsSubpath = "/ipfs/"
	ipnsSubpath = "/ipns/"
)

var (
	networkRegex = regexp.MustCompile(`^(?P<protocol>ipfs:/|ipns:/|ar:/)?(?P<root>/)?(?P<subpath>ipfs/|ipns/)?(?P<target>[\w\-.]+)(?P<subtarget>/.*)?`)
	base64Regex  = regexp.MustCompile(`^data:([a-zA-Z\-/+]*);base64,([^"].*)`)
	dataURIRegex = regexp.MustCompile(`^data:([a-zA-Z\-/+]*)?(;[a-zA-Z0-9].*?)?(,)`)
)

// Gateways overrides the default public gateways. Empty fields fall back to
// DefaultIPFSGateway and DefaultArweaveGateway.
type Gateways struct {
	IPFS    string `json:"ipfs,omitempty" yaml:"ipfs,omitempty" mapstructure:"ipfs"`
	Arweave string `json:"arweave,omitempty" yaml:"arweave,omitempty" mapstructure:"arweave"`
}

func (g *Gateways) ipfs() string {
	if g != nil && g.IPFS != "" {
		return g.IPFS
	}
	return DefaultIPFSGateway
}

func (g *Gateways) arweave() string {
	if g != nil && g.Arweave != "" {
		return g.Arweave
	}
	return DefaultArweaveGateway
}

// ResolvedURI is the outcome of Resolve.
type ResolvedURI struct {
	// URI is either a fetchable URL or, when IsOnChain is set, the payload itself.
	URI string
	// IsOnChain means URI needs no further network fetch.
	IsOnChain bool
	// IsEncoded means URI is a base64 data URI that must be decoded before use.
	IsEncoded bool
}

// Resolve classifies raw and rewrites it according to the configured gateways.
// It never fails: anything unrecognised is returned as an on-chain payload.
func Resolve(raw string, gateways *Gateways) ResolvedURI {
	isEncoded := base64Regex.MatchString(raw)
	if isEncoded || strings.HasPrefix(raw, "http") {
		out := raw
		if gateways != nil {
			out = replaceGateway(out, DefaultIPFSGateway+"/", gateways.IPFS)
			out = replaceGateway(out, DefaultArweaveGateway+"/", gateways.Arweave)
		}
		return ResolvedURI{URI: out, IsOnChain: isEncoded, IsEncoded: isEncoded}
	}

	groups := matchNetwork(raw)
	protocol, subpath, target, subtarget := groups["protocol"], groups["subpath"], groups["target"], groups["subtarget"]

	switch {
	case (protocol == "ipns:/" || subpath == "ipns/") && target != "":
		return ResolvedURI{URI: join(gateways.ipfs(), ipnsSubpath, target, subtarget)}
	case IsCID(target):
		// a bare CID is assumed to be IPFS content, never an IPNS key
		return ResolvedURI{URI: join(gateways.ipfs(), ipfsSubpath, target, subtarget)}
	case protocol == "ar:/" && target != "":
		return ResolvedURI{URI: join(gateways.arweave(), target, subtarget)}
	}

	zap.L().Debug("uri: treating value as on-chain payload", zap.Int("length", len(raw)))
	return ResolvedURI{URI: dataURIRegex.ReplaceAllString(raw, ""), IsOnChain: true}
}

func matchNetwork(raw string) map[string]string {
	groups := map[string]string{}
	m := networkRegex.FindStringSubmatch(raw)
	if m == nil {
		return groups
	}
	for i, name := range networkRegex.SubexpNames() {
		if name != "" {
			groups[name] = m[i]
		}
	}
	return groups
}

// replaceGateway swaps the hostname of raw for the one of target when raw is
// served from the default gateway source. Path and query are preserved.
func replaceGateway(raw, source, target string) string {
	if target == "" || !strings.HasPrefix(raw, source) {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	t, err := url.Parse(target)
	if err != nil || t.Hostname() == "" {
		return raw
	}
	host := t.Hostname()
	if port := u.Port(); port != "" {
		host += ":" + port
	}
	// rebuild textually so placeholders such as {id} survive unescaped
	rest := raw[len(u.Scheme)+len("://")+len(u.Host):]
	return u.Scheme + "://" + host + rest
}

// join concatenates URL parts with exactly one slash between them, keeping a
// "scheme://" prefix intact.
func join(parts ...string) string {
	var segments []string
	for i, p := range parts {
		if p == "" {
			continue
		}
		if i == 0 {
			p = strings.TrimRight(p, "/")
		} else {
			p = strings.Trim(p, "/")
		}
		if p != "" {
			segments = append(segments, p)
		}
	}
	return strings.Join(segments, "/")
}
