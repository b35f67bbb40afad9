package share

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"io"

	"github.com/treeline-io/treeline/pkg/codec"
	"github.com/treeline-io/treeline/pkg/document"
	"github.com/treeline-io/treeline/pkg/errors"
)

// maxTokenPayload bounds decompressed token size to guard against
// compression bombs in tokens received from untrusted links.
const maxTokenPayload = 4 << 20

// EncodeToken packs a document into a URL-safe share token.
// The token is the base64url encoding of the gzip-compressed
// structured JSON payload.
func EncodeToken(d *document.Document) (string, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if err := codec.EncodeJSON(d, gz); err != nil {
		gz.Close()
		return "", err
	}
	if err := gz.Close(); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "compress share payload")
	}
	return base64.RawURLEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodeToken unpacks a share token back into a document.
// The decoded document passes the same structural validation as any
// other JSON import.
func DecodeToken(token string) (*document.Document, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidToken, err, "decode share token")
	}
	gz, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidToken, err, "decompress share token")
	}
	defer gz.Close()

	d, err := codec.DecodeJSON(io.LimitReader(gz, maxTokenPayload))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidToken, err, "rebuild shared map")
	}
	return d, nil
}
