package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/floraledger/flora/internal/model"
	"github.com/floraledger/flora/internal/store"
)

// ErrMissingKey is returned when a snapshot lacks a required top-level key.
var ErrMissingKey = errors.New("snapshot is missing a required key")

// WriteSnapshot writes the full state as indented JSON.
func WriteSnapshot(w io.Writer, state model.BusinessState) error {
	data, err := store.Encode(state)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot parses a snapshot. The transactions, assets (or legacy
// plants) and settings keys must all be present; otherwise nothing is
// returned.
func ReadSnapshot(r io.Reader) (model.BusinessState, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return model.BusinessState{}, fmt.Errorf("reading snapshot: %w", err)
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return model.BusinessState{}, fmt.Errorf("parsing snapshot: %w", err)
	}
	var missing []string
	if _, ok := keys["transactions"]; !ok {
		missing = append(missing, "transactions")
	}
	_, hasAssets := keys["assets"]
	_, hasPlants := keys["plants"]
	if !hasAssets && !hasPlants {
		missing = append(missing, "assets")
	}
	if _, ok := keys["settings"]; !ok {
		missing = append(missing, "settings")
	}
	if len(missing) > 0 {
		return model.BusinessState{}, fmt.Errorf("%w: %v", ErrMissingKey, missing)
	}

	state, err := store.Decode(data)
	if err != nil {
		return model.BusinessState{}, fmt.Errorf("invalid snapshot: %w", err)
	}
	return state, nil
}

// SnapshotFileName is the default name of a JSON backup made on day d.
func SnapshotFileName(d time.Time) string {
	return "flora_ledger_backup_" + d.Format(dateFormat) + ".json"
}
