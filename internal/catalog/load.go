package catalog

import (
	"encoding/json"

	"github.com/go-faster/errors"
)

// document mirrors the seed JSON layout: a categories array followed by the
// ordered products array.
type document struct {
	Categories []Category `json:"categories"`
	Products   []Product  `json:"products"`
}

// LoadJSON decodes a catalog document. The seed is trusted, schema-stable
// input: beyond JSON well-formedness no field validation is performed.
func LoadJSON(data []byte) (*Catalog, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "decode catalog document")
	}
	return New(doc.Products, doc.Categories), nil
}
