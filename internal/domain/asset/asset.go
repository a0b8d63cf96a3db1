package asset

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
)

// ErrUnknownBackend is returned when an asset URL matches neither storage
// backend's URL shape. An asset that cannot be identified cannot later be
// safely deleted, so callers must not track it.
var ErrUnknownBackend = errors.New("could not derive storage identifier")

// Kind is the resource kind recorded at upload time.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
	KindRaw   Kind = "raw"
)

// Kinds lists every resource kind, used for legacy CDN existence probes.
var Kinds = []Kind{KindImage, KindVideo, KindRaw}

// ParseKind validates a resource kind string.
func ParseKind(raw string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(raw))) {
	case KindImage:
		return KindImage, nil
	case KindVideo:
		return KindVideo, nil
	case KindRaw:
		return KindRaw, nil
	default:
		return "", fmt.Errorf("unknown resource kind %q", raw)
	}
}

// KindFromMIME maps a sniffed MIME type to a resource kind. Audio lives under
// the video kind, matching how the legacy CDN classifies it.
func KindFromMIME(mime string) Kind {
	switch {
	case strings.HasPrefix(mime, "image/"):
		return KindImage
	case strings.HasPrefix(mime, "video/"), strings.HasPrefix(mime, "audio/"):
		return KindVideo
	default:
		return KindRaw
	}
}

// IsVisual reports whether assets of this kind can act as a thumbnail.
func (k Kind) IsVisual() bool {
	return k == KindImage || k == KindVideo
}

// Backend tags which storage backend owns an asset.
type Backend string

const (
	// BackendDirect is the S3-compatible direct-object store, keyed by object path.
	BackendDirect Backend = "direct"
	// BackendLegacyCDN is the legacy CDN store, keyed by its public-id scheme.
	BackendLegacyCDN Backend = "legacy_cdn"
)

// Asset is an asset URL resolved once into its backend variant. The backend
// tag and storage identifier are derived from the URL shape at the point the
// URL enters the system and reused everywhere after.
type Asset struct {
	URL        string
	Backend    Backend
	Identifier string
	Kind       Kind
}

// IsDirect reports whether the asset lives in the direct-object store.
func (a *Asset) IsDirect() bool {
	return a.Backend == BackendDirect
}

// InTransientPath reports whether a direct-object asset still sits in its
// owner's temp sub-path ({owner}/temp/...), i.e. is eligible for relocation.
func (a *Asset) InTransientPath() bool {
	if !a.IsDirect() {
		return false
	}
	parts := strings.SplitN(a.Identifier, "/", 3)
	return len(parts) == 3 && parts[1] == "temp"
}

// Filename returns the last path element of the storage identifier.
func (a *Asset) Filename() string {
	return path.Base(a.Identifier)
}

// Classifier resolves asset URLs into tagged backend variants.
type Classifier struct {
	directBase string
	cdnHost    string
	cdnCloud   string
}

// NewClassifier builds a classifier from the public base URL of the
// direct-object bucket and the legacy CDN delivery host and cloud name.
func NewClassifier(publicBase, bucket, cdnHost, cdnCloud string) *Classifier {
	base := strings.TrimSuffix(publicBase, "/")
	if bucket != "" {
		base = base + "/" + bucket
	}
	return &Classifier{
		directBase: base,
		cdnHost:    strings.ToLower(strings.TrimSpace(cdnHost)),
		cdnCloud:   strings.Trim(cdnCloud, "/"),
	}
}

// Classify resolves the URL into its backend variant. The recorded resource
// kind is carried on the asset; it may not match how the backend actually
// classified the content, which the legacy existence probe compensates for.
func (c *Classifier) Classify(rawURL string, kind Kind) (*Asset, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return nil, ErrUnknownBackend
	}

	if key, ok := c.directIdentifier(trimmed); ok {
		return &Asset{URL: trimmed, Backend: BackendDirect, Identifier: key, Kind: kind}, nil
	}
	if publicID, ok := c.legacyIdentifier(trimmed); ok {
		return &Asset{URL: trimmed, Backend: BackendLegacyCDN, Identifier: publicID, Kind: kind}, nil
	}
	return nil, ErrUnknownBackend
}

func (c *Classifier) directIdentifier(rawURL string) (string, bool) {
	if c.directBase == "" || !strings.HasPrefix(rawURL, c.directBase+"/") {
		return "", false
	}
	key := strings.TrimPrefix(rawURL, c.directBase+"/")
	if idx := strings.IndexAny(key, "?#"); idx >= 0 {
		key = key[:idx]
	}
	if unescaped, err := url.PathUnescape(key); err == nil {
		key = unescaped
	}
	if key == "" {
		return "", false
	}
	return key, true
}

// legacyIdentifier extracts the public id from a delivery URL of the form
// https://<host>/<cloud>/<kind>/upload/[v<N>/]<public-id>.<ext>
func (c *Classifier) legacyIdentifier(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || c.cdnHost == "" || !strings.EqualFold(u.Host, c.cdnHost) {
		return "", false
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 4 || parts[0] != c.cdnCloud || parts[2] != "upload" {
		return "", false
	}
	if _, err := ParseKind(parts[1]); err != nil {
		return "", false
	}

	rest := parts[3:]
	if len(rest) > 1 && isVersionSegment(rest[0]) {
		rest = rest[1:]
	}
	publicID := strings.Join(rest, "/")
	if ext := path.Ext(publicID); ext != "" {
		publicID = strings.TrimSuffix(publicID, ext)
	}
	if publicID == "" {
		return "", false
	}
	return publicID, true
}

func isVersionSegment(segment string) bool {
	if len(segment) < 2 || segment[0] != 'v' {
		return false
	}
	for _, r := range segment[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
