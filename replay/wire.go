package replay

import (
	"encoding/json"
	"fmt"
	"os"
)

// Encode renders a transcript as indented JSON, stable enough to diff and
// check into fixtures.
func Encode(t *Transcript) ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}

func Decode(data []byte) (*Transcript, error) {
	var t Transcript
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode transcript: %w", err)
	}
	if t.Version == 0 {
		t.Version = TranscriptVersion
	}
	if t.Version != TranscriptVersion {
		return nil, fmt.Errorf("unsupported transcript version %d", t.Version)
	}
	return &t, nil
}

func LoadFile(path string) (*Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read transcript %s: %w", path, err)
	}
	return Decode(data)
}

func SaveFile(path string, t *Transcript) error {
	data, err := Encode(t)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
