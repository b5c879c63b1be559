package geo

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/adxlogistics/freight-rate-engine/internal/model"
)

// Gate positions are approximate; the on-route test is a coarse
// proximity heuristic, not road-segment geometry.
//
//go:embed tollgates.json
var embeddedGates []byte

// GateList is versioned reference data describing known toll gates.
type GateList struct {
	Version string           `json:"version"`
	Gates   []model.TollGate `json:"gates"`
}

// LoadGates reads the toll-gate reference list. With an empty path the
// embedded list is used; otherwise the file at path replaces it.
func LoadGates(path string) (GateList, error) {
	data := embeddedGates
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return GateList{}, fmt.Errorf("read toll gates file: %w", err)
		}
	}

	var list GateList
	if err := json.Unmarshal(data, &list); err != nil {
		return GateList{}, fmt.Errorf("parse toll gates: %w", err)
	}
	if len(list.Gates) == 0 {
		return GateList{}, fmt.Errorf("toll gate list %q contains no gates", list.Version)
	}

	return list, nil
}
