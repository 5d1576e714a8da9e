package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ipfs/go-cid"
	"github.com/ipfs/kubo/client/rpc"
	"go.uber.org/zap"
)

const (
	// IpfsPrefix is the URI scheme prefix recognized for IPFS content.
	IpfsPrefix = "ipfs://"
	// IpnsPrefix is the URI scheme prefix recognized for IPNS names.
	IpnsPrefix = "ipns://"

	defaultMaxSize int64 = 50 << 20
)

// ErrTooLarge is returned when a document exceeds the reader's size limit.
var ErrTooLarge = errors.New("ipfs: content exceeds size limit")

// IPFSReader serves IPFS paths from a Kubo node.
type IPFSReader struct {
	api     *rpc.HttpApi
	maxSize int64
}

// NewIPFSReader wraps api. A maxSize of zero selects 50 MiB.
func NewIPFSReader(api *rpc.HttpApi, maxSize int64) *IPFSReader {
	if maxSize <= 0 {
		maxSize = defaultMaxSize
	}
	return &IPFSReader{api: api, maxSize: maxSize}
}

// ReadPath runs `ipfs cat` on path. path may be an /ipfs/ or /ipns/ path, an
// ipfs:// or ipns:// URI, or a bare CID.
func (r *IPFSReader) ReadPath(ctx context.Context, path string) (content []byte, err error) {
	if r == nil || r.api == nil {
		return nil, fmt.Errorf("ipfs client not configured")
	}
	p, err := FormatPath(path)
	if err != nil {
		return nil, err
	}

	zap.L().Debug("Path used to retrieve from IPFS", zap.String("path", p))

	resp, err := r.api.Request("cat", p).Send(ctx)
	if err != nil {
		zap.L().Error("error executing the cat command in ipfs", zap.String("path", p), zap.Error(err))
		return nil, err
	}
	defer func(resp *rpc.Response) {
		if cerr := resp.Close(); cerr != nil {
			zap.L().Error("error closing response in ipfs", zap.String("path", p), zap.Error(cerr))
		}
	}(resp)

	if resp.Error != nil {
		zap.L().Debug("ipfs cat returned error", zap.String("path", p), zap.Error(resp.Error))
		return nil, fmt.Errorf("ipfs cat %s: %w", p, resp.Error)
	}

	content, err = io.ReadAll(io.LimitReader(resp.Output, r.maxSize+1))
	if err != nil {
		zap.L().Error("error reading ipfs content", zap.String("path", p), zap.Error(err))
		return nil, err
	}
	if int64(len(content)) > r.maxSize {
		return nil, fmt.Errorf("%s: %w", p, ErrTooLarge)
	}
	return content, nil
}

// FormatPath normalises the accepted inputs to an /ipfs/ or /ipns/ path and
// checks that an /ipfs/ root is a CID.
func FormatPath(in string) (string, error) {
	s := strings.TrimSpace(in)
	switch {
	case strings.HasPrefix(s, IpfsPrefix):
		s = "/ipfs/" + strings.TrimPrefix(strings.TrimPrefix(s, IpfsPrefix), "ipfs/")
	case strings.HasPrefix(s, IpnsPrefix):
		s = "/ipns/" + strings.TrimPrefix(strings.TrimPrefix(s, IpnsPrefix), "ipns/")
	case strings.HasPrefix(s, "/ipfs/"), strings.HasPrefix(s, "/ipns/"):
	default:
		s = "/ipfs/" + strings.TrimPrefix(s, "/")
	}

	if rest, ok := strings.CutPrefix(s, "/ipfs/"); ok {
		root, _, _ := strings.Cut(rest, "/")
		if _, err := cid.Decode(root); err != nil {
			return "", fmt.Errorf("invalid ipfs path %q: %w", in, err)
		}
	}
	if s == "/ipns/" {
		return "", fmt.Errorf("invalid ipns path %q", in)
	}
	return s, nil
}

// NewIPFSClient constructs a Kubo HTTP API client pointed at url.
func NewIPFSClient(url string, timeout time.Duration) (*rpc.HttpApi, error) {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	httpClient := &http.Client{
		Timeout: timeout,
	}
	client, err := rpc.NewURLApiWithClient(url, httpClient)
	if err != nil {
		zap.L().Error("Connection failed to IPFS", zap.String("url", url), zap.Error(err))
		return nil, err
	}
	return client, nil
}
