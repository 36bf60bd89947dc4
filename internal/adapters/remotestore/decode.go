package remotestore

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/pkg/errors"
)

// decodeBody decodes a JSON response body into v. It reports false, and
// leaves v untouched, when the response does not declare a JSON content type
// or the body is not valid JSON. Only a failure to read the body is an error.
func decodeBody(res *http.Response, v any, log *slog.Logger) (bool, error) {
	if !isJSON(res.Header.Get("Content-Type")) {
		return false, nil
	}
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return false, errors.Wrap(err, "read body")
	}
	if err := json.Unmarshal(body, v); err != nil {
		log.Warn("undecodable response body", "url", requestURL(res), "status", res.StatusCode, "err", err)
		return false, nil
	}
	return true, nil
}

// decodeList decodes a JSON array body. Anything that is not an array comes
// back as an empty list, so "no data" and "could not decode" look the same.
// Elements are decoded one at a time; an element that cannot be decoded is
// logged and skipped without losing the rest.
func decodeList[T any](res *http.Response, log *slog.Logger) ([]T, error) {
	var raw json.RawMessage
	ok, err := decodeBody(res, &raw, log)
	if err != nil || !ok {
		return nil, err
	}
	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
		return nil, nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		log.Warn("undecodable list body", "url", requestURL(res), "err", err)
		return nil, nil
	}
	out := make([]T, 0, len(elems))
	for i, elem := range elems {
		var v T
		if err := json.Unmarshal(elem, &v); err != nil {
			log.Warn("skipping list element", "url", requestURL(res), "index", i, "err", err)
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "application/json"
}

func requestURL(res *http.Response) string {
	if res.Request == nil || res.Request.URL == nil {
		return ""
	}
	return res.Request.URL.String()
}
