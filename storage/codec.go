package storage

import (
	"encoding/json"
	"errors"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

func EncodeRun(r RunRecord) ([]byte, error) {
	return json.Marshal(r)
}

func DecodeRun(data []byte) (RunRecord, error) {
	var run RunRecord
	if err := json.Unmarshal(data, &run); err != nil {
		return RunRecord{}, err
	}
	if err := checkVersion(run.VersionedRecord); err != nil {
		return RunRecord{}, err
	}
	return run, nil
}

func EncodeSnapshot(s SnapshotRecord) ([]byte, error) {
	return json.Marshal(s)
}

func DecodeSnapshot(data []byte) (SnapshotRecord, error) {
	var rec SnapshotRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return SnapshotRecord{}, err
	}
	if err := checkVersion(rec.VersionedRecord); err != nil {
		return SnapshotRecord{}, err
	}
	return rec, nil
}

func checkVersion(v VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}
