package model

import (
	"errors"
	"fmt"
	"testing"
)

func TestMetadata_Image(t *testing.T) {
	tests := []struct {
		name string
		meta Metadata
		want string
		ok   bool
	}{
		{
			name: "image wins",
			meta: Metadata{KeyImage: "a", KeyImageURL: "b", KeyImageData: "c"},
			want: "a",
			ok:   true,
		},
		{
			name: "image_url when image empty",
			meta: Metadata{KeyImage: "", KeyImageURL: "b"},
			want: "b",
			ok:   true,
		},
		{
			name: "image_data last",
			meta: Metadata{KeyImageData: "<svg/>"},
			want: "<svg/>",
			ok:   true,
		},
		{
			name: "non-string ignored",
			meta: Metadata{KeyImage: 42},
			ok:   false,
		},
		{
			name: "missing",
			meta: Metadata{},
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.meta.Image()
			if ok != tt.ok || got != tt.want {
				t.Fatalf("Image() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestMetadata_HostMeta(t *testing.T) {
	m := Metadata{}
	if _, ok := m.HostMeta(); ok {
		t.Fatal("expected no host meta")
	}
	m[KeyHostMeta] = &HostMeta{ChainID: 1}
	hm, ok := m.HostMeta()
	if !ok || hm.ChainID != 1 {
		t.Fatalf("unexpected host meta: %+v, %v", hm, ok)
	}
}

func TestMediaKey_IsHeader(t *testing.T) {
	if MediaKeyAvatar.IsHeader() {
		t.Fatal("avatar is not a header key")
	}
	if !MediaKeyHeader.IsHeader() || !MediaKeyBanner.IsHeader() {
		t.Fatal("header and banner must be header keys")
	}
	if MediaKey("video").IsHeader() {
		t.Fatal("video is not a header key")
	}
}

func TestError_IsAndKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewError(KindUnsupportedNamespace, "Unsupported namespace: erc998", "erc998"))

	if !errors.Is(err, ErrUnsupportedNamespace) {
		t.Fatal("expected errors.Is to match the namespace sentinel")
	}
	if errors.Is(err, ErrParsing) {
		t.Fatal("namespace error must not match the parsing sentinel")
	}
	if !IsKind(err, KindUnsupportedNamespace) {
		t.Fatal("expected IsKind to match")
	}
	if IsKind(errors.New("plain"), KindParsing) {
		t.Fatal("plain errors have no kind")
	}
}

func TestError_Message(t *testing.T) {
	err := NewError(KindParsing, "tokenID not found", "eip155:1/erc1155:0xabc")
	want := "PARSING: tokenID not found - eip155:1/erc1155:0xabc"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}
