// Package fetch defines the result contract shared by both fetch strategies:
// the per-request statistics (logical call count, serialized byte size) and
// the codec used to measure payloads.
package fetch

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/c360/fetchlab/errors"
)

// json is the codec used for every payload that would cross a transport
// boundary. Byte sizes reported in Stats are the length of this encoding.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Stats describes the transport cost of one logical request: how many
// data-fetch calls it issued and how many serialized payload bytes those
// calls produced in total.
type Stats struct {
	Calls int `json:"calls"`
	Bytes int `json:"bytes"`
}

// Marshal serializes a payload with the shared codec.
func Marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.WrapInternal(err, "fetch", "Marshal", "payload serialization")
	}
	return data, nil
}

// Counter accumulates Stats across the payloads of a single logical request.
type Counter struct {
	stats Stats
}

// Count serializes one payload and adds its cost: one call plus its bytes.
func (c *Counter) Count(payload any) error {
	data, err := Marshal(payload)
	if err != nil {
		return err
	}
	c.stats.Calls++
	c.stats.Bytes += len(data)
	return nil
}

// Stats returns the accumulated statistics.
func (c *Counter) Stats() Stats {
	return c.stats
}
