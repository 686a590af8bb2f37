package arango

import (
	"github.com/autom8ter/arango/errors"
	"github.com/spf13/cast"
	"github.com/tidwall/gjson"
)

// DocumentResponse is the outcome of a single document write. A silent
// response carries no information beyond the fact that the write happened.
type DocumentResponse struct {
	silent bool
	header DocumentHeader
	old    *Document
	new    *Document
	oldRev string
}

// IsSilent returns true when the server replied with an empty object
func (r *DocumentResponse) IsSilent() bool {
	return r.silent
}

// HasResponse returns true when the server replied with document metadata
func (r *DocumentResponse) HasResponse() bool {
	return !r.silent
}

// Header returns the written document's header. The zero value is returned
// for silent responses.
func (r *DocumentResponse) Header() DocumentHeader {
	return r.header
}

// OldDoc returns the previous version of the document if the write requested it
func (r *DocumentResponse) OldDoc() *Document {
	return r.old
}

// NewDoc returns the stored version of the document if the write requested it
func (r *DocumentResponse) NewDoc() *Document {
	return r.new
}

// OldRev returns the replaced revision if the server reported one
func (r *DocumentResponse) OldRev() string {
	return r.oldRev
}

// decodeDocumentResponse interprets a document write body. An empty object is
// a silent write. Any other object must carry _id, _key and _rev. The old and
// new documents are only present when the request asked for them.
func decodeDocumentResponse(body []byte) (*DocumentResponse, error) {
	if err := checkServerError(body); err != nil {
		return nil, err
	}
	parsed := gjson.ParseBytes(body)
	if !parsed.IsObject() {
		return nil, errors.New(errors.Serde, "document response must be a json object: %s", string(body))
	}
	empty := true
	parsed.ForEach(func(key, value gjson.Result) bool {
		empty = false
		return false
	})
	if empty {
		return &DocumentResponse{silent: true}, nil
	}
	var (
		id  = parsed.Get("_id")
		key = parsed.Get("_key")
		rev = parsed.Get("_rev")
	)
	if !id.Exists() || !key.Exists() || !rev.Exists() {
		return nil, errors.New(errors.Serde, "document response missing header fields: %s", string(body))
	}
	resp := &DocumentResponse{
		header: DocumentHeader{
			ID:  id.String(),
			Key: key.String(),
			Rev: rev.String(),
		},
		oldRev: cast.ToString(parsed.Get("_old_rev").Value()),
	}
	if old := parsed.Get("old"); old.Exists() {
		if !old.IsObject() {
			return nil, errors.New(errors.Serde, "old document must be a json object: %s", old.Raw)
		}
		doc, err := NewDocumentFromBytes([]byte(old.Raw))
		if err != nil {
			return nil, err
		}
		resp.old = doc
	}
	if newDoc := parsed.Get("new"); newDoc.Exists() {
		if !newDoc.IsObject() {
			return nil, errors.New(errors.Serde, "new document must be a json object: %s", newDoc.Raw)
		}
		doc, err := NewDocumentFromBytes([]byte(newDoc.Raw))
		if err != nil {
			return nil, err
		}
		resp.new = doc
	}
	return resp, nil
}
