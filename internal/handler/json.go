package handler

import (
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// maxBodySize bounds request bodies; cart payloads are tiny.
const maxBodySize = 1 << 16

// respond writes a JSON response built by encode.
func respond(w http.ResponseWriter, r *http.Request, status int, encode func(e *jx.Encoder)) {
	e := &jx.Encoder{}
	encode(e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(e.Bytes()); err != nil {
		zctx.From(r.Context()).Debug("write response", zap.Error(err))
	}
}

// respondError writes the {code, message} error body shared by all endpoints.
func respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	respond(w, r, status, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("code", func(e *jx.Encoder) { e.Int(status) })
			e.Field("message", func(e *jx.Encoder) { e.Str(message) })
		})
	})
}

// decodeBody decodes a request body object field by field.
func decodeBody(r *http.Request, field func(d *jx.Decoder, key string) error) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return errors.Wrap(err, "read body")
	}
	d := jx.DecodeBytes(body)
	if err := d.Obj(field); err != nil {
		return errors.Wrap(err, "decode body")
	}
	return nil
}

// encodeAmount writes a whole-rupee amount as a JSON number.
func encodeAmount(e *jx.Encoder, amount decimal.Decimal) {
	e.Num(jx.Num(amount.String()))
}
