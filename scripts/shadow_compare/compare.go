package main

import (
	"bytes"
	"encoding/json"
	"reflect"
)

// bodiesEqual compares two JSON bodies after unwrapping the Go service's
// {"data": ...} envelope and dropping the ignored keys at any depth.
func bodiesEqual(goBody, legacyBody []byte, ignore []string) bool {
	if bytes.Equal(bytes.TrimSpace(goBody), bytes.TrimSpace(legacyBody)) {
		return true
	}

	var gv, lv interface{}
	if err := json.Unmarshal(goBody, &gv); err != nil {
		return false
	}
	if err := json.Unmarshal(legacyBody, &lv); err != nil {
		return false
	}
	gv = unwrapEnvelope(gv)

	skip := make(map[string]struct{}, len(ignore))
	for _, key := range ignore {
		skip[key] = struct{}{}
	}
	return reflect.DeepEqual(normalize(gv, skip), normalize(lv, skip))
}

func unwrapEnvelope(v interface{}) interface{} {
	m, ok := v.(map[string]interface{})
	if !ok {
		return v
	}
	data, ok := m["data"]
	if !ok {
		return v
	}
	if _, hasErr := m["error"]; hasErr {
		return v
	}
	return data
}

// normalize drops ignored keys and folds booleans and integral floats into
// int64 so 1, 1.0 and true compare equal; the legacy service mixes them.
func normalize(v interface{}, skip map[string]struct{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, v2 := range val {
			if _, drop := skip[k]; drop {
				continue
			}
			out[k] = normalize(v2, skip)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, v2 := range val {
			out[i] = normalize(v2, skip)
		}
		return out
	case bool:
		if val {
			return int64(1)
		}
		return int64(0)
	case float64:
		if val == float64(int64(val)) {
			return int64(val)
		}
		return val
	default:
		return v
	}
}
