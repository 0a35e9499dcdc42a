package modelstore

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/golang/snappy"
)

// Snapshot files are a 4-byte magic, a format version byte, then a
// snappy-compressed JSON payload.
var fileMagic = []byte("SCM1")

const formatVersion = 1

// encodeSnapshot serializes a snapshot into the on-disk format.
func encodeSnapshot(snap *Snapshot) ([]byte, error) {
	payload, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}

	buf := bytes.NewBuffer(make([]byte, 0, len(fileMagic)+1+len(payload)/2))
	buf.Write(fileMagic)
	buf.WriteByte(formatVersion)
	buf.Write(snappy.Encode(nil, payload))
	return buf.Bytes(), nil
}

// decodeSnapshot parses the on-disk format back into a snapshot.
func decodeSnapshot(data []byte) (*Snapshot, error) {
	if len(data) < len(fileMagic)+1 {
		return nil, fmt.Errorf("snapshot file too short")
	}
	if !bytes.Equal(data[:len(fileMagic)], fileMagic) {
		return nil, fmt.Errorf("bad snapshot magic")
	}
	version := data[len(fileMagic)]
	if version != formatVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", version)
	}

	payload, err := snappy.Decode(nil, data[len(fileMagic)+1:])
	if err != nil {
		return nil, fmt.Errorf("snappy decompress failed: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snap, nil
}
