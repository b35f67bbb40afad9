package codec

import (
	"encoding/json"
	"io"

	"github.com/treeline-io/treeline/pkg/document"
	"github.com/treeline-io/treeline/pkg/errors"
)

// EncodeJSON writes the lossless structured format: the metadata bag plus
// full node and edge collections, indented for readability.
func EncodeJSON(d *document.Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromDocument(d)); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode json")
	}
	return nil
}

// DecodeJSON reads the structured format back into a Document.
// Malformed JSON or a payload that is not a valid rooted tree yields an
// IMPORT_FAILED error.
func DecodeJSON(r io.Reader) (*document.Document, error) {
	var p Payload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, errors.Wrap(errors.ErrCodeImportFailed, err, "decode json")
	}
	if len(p.Nodes) == 0 {
		return nil, errors.New(errors.ErrCodeImportFailed, "payload has no nodes")
	}
	return ToDocument(p)
}

// MarshalJSON serializes a document to JSON bytes.
func MarshalJSON(d *document.Document) ([]byte, error) {
	return json.MarshalIndent(FromDocument(d), "", "  ")
}

// UnmarshalJSON deserializes JSON bytes into a Document.
func UnmarshalJSON(data []byte) (*document.Document, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrap(errors.ErrCodeImportFailed, err, "decode json")
	}
	if len(p.Nodes) == 0 {
		return nil, errors.New(errors.ErrCodeImportFailed, "payload has no nodes")
	}
	return ToDocument(p)
}
