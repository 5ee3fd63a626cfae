package store

import (
	"encoding/json"
	"os"
)

// Both stores persist a single JSON document that is rewritten in full on
// every mutation. The design assumes one writing process; concurrent
// external writers can race and silently lose updates.

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
