package image

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/singnet/ens-avatar-go/pkg/model"
	"github.com/singnet/ens-avatar-go/pkg/svg"
	"github.com/singnet/ens-avatar-go/pkg/uri"
)

func TestImageURI(t *testing.T) {
	opts := URIOptions{Sanitizer: svg.DefaultPolicy(), DenyList: []string{"evil.example"}}

	t.Run("ipfs image resolves through gateway", func(t *testing.T) {
		got, err := ImageURI(model.Metadata{"image": "ipfs://QmZHKZDavkvNfA9gSAg7HALv8jF7BJaKjUc9U2LSuvUySB/1.png"}, opts)
		require.NoError(t, err)
		assert.Equal(t, "https://ipfs.io/ipfs/QmZHKZDavkvNfA9gSAg7HALv8jF7BJaKjUc9U2LSuvUySB/1.png", got)
	})

	t.Run("custom gateway", func(t *testing.T) {
		o := opts
		o.Gateways = &uri.Gateways{IPFS: "https://gateway.example"}
		got, err := ImageURI(model.Metadata{"image_url": "ipfs://QmZHKZDavkvNfA9gSAg7HALv8jF7BJaKjUc9U2LSuvUySB"}, o)
		require.NoError(t, err)
		assert.Equal(t, "https://gateway.example/ipfs/QmZHKZDavkvNfA9gSAg7HALv8jF7BJaKjUc9U2LSuvUySB", got)
	})

	t.Run("svg is sanitized", func(t *testing.T) {
		md := model.Metadata{"image_data": `<svg xmlns="http://www.w3.org/2000/svg"><script>alert(1)</script><rect width="1" height="1"></rect></svg>`}
		got, err := ImageURI(md, opts)
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(got, svg.Base64Prefix))
		raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(got, svg.Base64Prefix))
		require.NoError(t, err)
		assert.NotContains(t, string(raw), "script")
		assert.Contains(t, string(raw), "<rect")
	})

	t.Run("svg without sanitizer", func(t *testing.T) {
		md := model.Metadata{"image": `<svg xmlns="http://www.w3.org/2000/svg"></svg>`}
		_, err := ImageURI(md, URIOptions{})
		assert.True(t, errors.Is(err, model.ErrSanitizerRequired))
	})

	t.Run("raster data uri", func(t *testing.T) {
		gif := "data:image/gif;base64,R0lGODlhAQABAAAAACH5BAEKAAEALAAAAAABAAEAAAICTAEAOw=="
		got, err := ImageURI(model.Metadata{"image": gif}, opts)
		require.NoError(t, err)
		assert.Equal(t, gif, got)
	})

	t.Run("deny-listed host", func(t *testing.T) {
		got, err := ImageURI(model.Metadata{"image": "https://evil.example/a.png"}, opts)
		require.NoError(t, err)
		assert.Empty(t, got)

		got, err = ImageURI(model.Metadata{"image": "https://EVIL.Example/a.png"}, opts)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("unsupported value", func(t *testing.T) {
		got, err := ImageURI(model.Metadata{"image": "ftp://files.example/a.png"}, opts)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("missing image", func(t *testing.T) {
		_, err := ImageURI(model.Metadata{"name": "x"}, opts)
		assert.True(t, model.IsKind(err, model.KindImageUnavailable))
	})
}
