package ipc

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

const (
	// MaxFrame bounds a frame's payload, compressed or not.
	MaxFrame = 1 << 20

	// compressedFlag marks an lz4-compressed payload in the length prefix.
	compressedFlag = 1 << 31
)

var ErrFrameTooLarge = errors.New("frame exceeds maximum size")

// Envelope is the wire format shared with the UI client.
// Data is kept as RawMessage so handlers can defer deserialization to the concrete type.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func NewEnvelope(msgType string, data any) (Envelope, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal data: %w", err)
	}
	return Envelope{Type: msgType, Data: raw}, nil
}

// ReadEnvelope reads a single length-prefixed JSON envelope. The prefix is
// a 4-byte little-endian length whose high bit says the payload is an lz4
// frame.
func ReadEnvelope(r io.Reader) (Envelope, error) {
	var prefix uint32
	if err := binary.Read(r, binary.LittleEndian, &prefix); err != nil {
		return Envelope{}, fmt.Errorf("read length: %w", err)
	}
	compressed := prefix&compressedFlag != 0
	length := prefix &^ compressedFlag

	// Guard against corrupted frames or malicious payloads.
	if length == 0 || length > MaxFrame {
		return Envelope{}, fmt.Errorf("invalid message length: %d", length)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return Envelope{}, fmt.Errorf("read payload: %w", err)
	}
	if compressed {
		var err error
		if payload, err = decompress(payload); err != nil {
			return Envelope{}, err
		}
	}

	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return Envelope{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	return env, nil
}

// WriteEnvelope frames env onto w. Payloads longer than compressAbove bytes
// are sent lz4-compressed when that makes them smaller; compressAbove <= 0
// never compresses.
func WriteEnvelope(w io.Writer, env Envelope, compressAbove int) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	var flag uint32
	if compressAbove > 0 && len(payload) > compressAbove {
		packed, err := compress(payload)
		if err != nil {
			return err
		}
		if len(packed) < len(payload) {
			payload = packed
			flag = compressedFlag
		}
	}
	if len(payload) > MaxFrame {
		return fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, len(payload))
	}

	frame := make([]byte, 4, 4+len(payload))
	binary.LittleEndian.PutUint32(frame, uint32(len(payload))|flag)
	frame = append(frame, payload...)
	if _, err := w.Write(frame); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

func compress(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	if _, err := zw.Write(src); err != nil {
		return nil, fmt.Errorf("compress payload: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("compress payload: %w", err)
	}
	return buf.Bytes(), nil
}

// decompress inflates an lz4 frame, refusing output past MaxFrame.
func decompress(src []byte) ([]byte, error) {
	zr := lz4.NewReader(bytes.NewReader(src))
	out, err := io.ReadAll(io.LimitReader(zr, MaxFrame+1))
	if err != nil {
		return nil, fmt.Errorf("decompress payload: %w", err)
	}
	if len(out) > MaxFrame {
		return nil, fmt.Errorf("%w: decompressed payload", ErrFrameTooLarge)
	}
	return out, nil
}
