// Package envelope normalizes the response shapes the CMS API uses for lists
// and single entities.
package envelope

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// PageInfo carries the pagination totals of a list response.
type PageInfo struct {
	TotalPages int `json:"totalPages"`
	TotalItems int `json:"totalItems"`
}

// List is a decoded list response.
type List[T any] struct {
	Items []T      `json:"data"`
	Page  PageInfo `json:"page"`
}

type listEnvelope[T any] struct {
	Data       []T  `json:"data"`
	TotalPages *int `json:"totalPages"`
	TotalItems *int `json:"totalItems"`
}

var errEmptyPayload = errors.New("empty payload")

// DecodeList accepts {"data": [...], "totalPages": n, "totalItems": n} or a
// bare array. Bare arrays report a single page holding every item.
func DecodeList[T any](raw []byte) (List[T], error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return List[T]{}, fmt.Errorf("decode list: %w", errEmptyPayload)
	}

	if raw[0] == '[' {
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return List[T]{}, fmt.Errorf("decode list: %w", err)
		}
		return List[T]{Items: items, Page: bareArrayPage(len(items))}, nil
	}

	var env listEnvelope[T]
	if err := json.Unmarshal(raw, &env); err != nil {
		return List[T]{}, fmt.Errorf("decode list: %w", err)
	}

	out := List[T]{Items: env.Data, Page: bareArrayPage(len(env.Data))}
	if env.TotalItems != nil {
		out.Page.TotalItems = *env.TotalItems
	}
	if env.TotalPages != nil {
		out.Page.TotalPages = *env.TotalPages
	}
	if out.Items == nil {
		out.Items = []T{}
	}
	return out, nil
}

func bareArrayPage(n int) PageInfo {
	if n == 0 {
		return PageInfo{}
	}
	return PageInfo{TotalPages: 1, TotalItems: n}
}

// DecodeEntity accepts a bare entity or one wrapped as {"data": entity},
// optionally with metadata such as "message" or "success" beside it.
func DecodeEntity[T any](raw []byte) (T, error) {
	var zero T
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return zero, fmt.Errorf("decode entity: %w", errEmptyPayload)
	}

	if raw[0] == '{' {
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(raw, &probe); err != nil {
			return zero, fmt.Errorf("decode entity: %w", err)
		}
		if inner, ok := probe["data"]; ok && isObject(inner) && onlyEnvelopeKeys(probe) {
			raw = inner
		}
	}

	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return zero, fmt.Errorf("decode entity: %w", err)
	}
	return out, nil
}

// envelopeKeys may sit next to "data" in a wrapped entity response.
var envelopeKeys = map[string]bool{
	"message":    true,
	"status":     true,
	"statusCode": true,
	"success":    true,
	"error":      true,
	"meta":       true,
	"timestamp":  true,
}

// onlyEnvelopeKeys reports whether every key besides "data" is response
// metadata, so an entity that merely has a "data" field is left alone.
func onlyEnvelopeKeys(obj map[string]json.RawMessage) bool {
	for k := range obj {
		if k != "data" && !envelopeKeys[k] {
			return false
		}
	}
	return true
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}
