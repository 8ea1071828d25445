// Logpipe - Buffered Multi-Transport Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logpipe

package logpipe

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/goccy/go-json"
)

// Reserved entry keys. Metadata using one of these keys is not serialized.
const (
	KeyLevel     = "level"
	KeyMsg       = "msg"
	KeyTimestamp = "timestamp"
	KeyDomain    = "domain"
	KeyRequestID = "requestId"
)

// badKey holds the value of a trailing key without a partner.
const badKey = "!BADKEY"

// Entry is one logging event. Entries are values; nothing downstream of the
// Logger mutates one.
type Entry struct {
	Level     Level
	Msg       string
	Timestamp int64 // Unix milliseconds, set once by the Logger
	Domain    []string
	RequestID string
	Fields    map[string]any
}

// Time returns the entry timestamp as a time.Time in UTC.
func (e Entry) Time() time.Time {
	return time.UnixMilli(e.Timestamp).UTC()
}

// HasDomain reports whether the entry carries at least one of domains.
func (e Entry) HasDomain(domains ...string) bool {
	for _, d := range e.Domain {
		for _, want := range domains {
			if d == want {
				return true
			}
		}
	}
	return false
}

// clone returns a copy whose Domain and Fields do not alias the caller's.
func (e Entry) clone() Entry {
	if e.Domain != nil {
		e.Domain = append([]string(nil), e.Domain...)
	}
	if e.Fields != nil {
		fields := make(map[string]any, len(e.Fields))
		for k, v := range e.Fields {
			fields[k] = v
		}
		e.Fields = fields
	}
	return e
}

// extraKeys returns the serializable metadata keys in sorted order.
func (e Entry) extraKeys() []string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		if isReserved(k) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func isReserved(key string) bool {
	switch key {
	case KeyLevel, KeyMsg, KeyTimestamp, KeyDomain, KeyRequestID:
		return true
	}
	return false
}

// MarshalJSON encodes the entry as one object with a fixed key order:
// level, msg, timestamp, domain, requestId, then metadata sorted by key.
// A single domain is written as a string, several as an array.
func (e Entry) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(128)

	buf.WriteString(`{"level":`)
	writeJSONValue(&buf, e.Level.String())
	buf.WriteString(`,"msg":`)
	writeJSONValue(&buf, e.Msg)
	buf.WriteString(`,"timestamp":`)
	writeJSONValue(&buf, e.Timestamp)

	switch len(e.Domain) {
	case 0:
	case 1:
		buf.WriteString(`,"domain":`)
		writeJSONValue(&buf, e.Domain[0])
	default:
		buf.WriteString(`,"domain":`)
		writeJSONValue(&buf, e.Domain)
	}

	if e.RequestID != "" {
		buf.WriteString(`,"requestId":`)
		writeJSONValue(&buf, e.RequestID)
	}

	for _, k := range e.extraKeys() {
		buf.WriteByte(',')
		writeJSONValue(&buf, k)
		buf.WriteByte(':')
		writeJSONValue(&buf, e.Fields[k])
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// jsonLine returns the entry encoding followed by a newline.
func (e Entry) jsonLine() []byte {
	line, _ := e.MarshalJSON()
	return append(line, '\n')
}

// writeJSONValue encodes v, degrading to its fmt representation when v
// cannot be encoded. Errors are written as their message.
func writeJSONValue(buf *bytes.Buffer, v any) {
	if err, ok := v.(error); ok && err != nil {
		v = err.Error()
	}
	b, err := json.Marshal(v)
	if err != nil {
		b, _ = json.Marshal(fmt.Sprintf("%+v", v))
	}
	buf.Write(b)
}

// Fields builds a metadata map from alternating keys and values.
// Non-string keys are formatted with fmt; a trailing key without a value is
// stored under "!BADKEY".
//
//	logpipe.Fields("user", id, "attempt", 3)
func Fields(kv ...any) map[string]any {
	if len(kv) == 0 {
		return nil
	}
	fields := make(map[string]any, (len(kv)+1)/2)
	for i := 0; i < len(kv); i += 2 {
		if i+1 >= len(kv) {
			fields[badKey] = kv[i]
			break
		}
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		fields[key] = kv[i+1]
	}
	return fields
}
