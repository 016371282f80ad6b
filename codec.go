package main

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Snapshot encodings selectable with server.snapshot_codec
const (
	CodecJSON    = "json"
	CodecMsgpack = "msgpack"
)

// SnapshotCodec turns a snapshot envelope into wire bytes once per tick so
// every client gets the same buffer.
type SnapshotCodec interface {
	Encode(msg Envelope) ([]byte, error)
	// Binary reports whether frames go out as binary WebSocket messages
	Binary() bool
}

// NewSnapshotCodec returns the codec for a configured name
func NewSnapshotCodec(name string) (SnapshotCodec, error) {
	switch name {
	case "", CodecJSON:
		return jsonCodec{}, nil
	case CodecMsgpack:
		return msgpackCodec{}, nil
	}
	return nil, fmt.Errorf("snapshot codec %q: %w", name, errBadConfig)
}

type jsonCodec struct{}

func (jsonCodec) Encode(msg Envelope) ([]byte, error) { return json.Marshal(msg) }
func (jsonCodec) Binary() bool                        { return false }

// msgpackCodec reuses the json tags so both encodings share field names
type msgpackCodec struct{}

func (msgpackCodec) Encode(msg Envelope) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	enc.UseCompactInts(true)
	if err := enc.Encode(msg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (msgpackCodec) Binary() bool { return true }

// decodeMsgpack is the inverse of msgpackCodec.Encode
func decodeMsgpack(data []byte, v interface{}) error {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	return dec.Decode(v)
}
