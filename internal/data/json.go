package data

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"bond-pricer/internal/model"
)

// Portfolio is the JSON form of a bond file.
type Portfolio struct {
	ValuationDate string       `json:"valuation_date,omitempty"`
	Bonds         []BondRecord `json:"bonds"`
}

func LoadPortfolioJSON(path string) (*Portfolio, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p Portfolio
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return &p, nil
}

// LoadBonds reads a bond file, choosing the decoder from its extension.
func LoadBonds(path string) ([]model.BondInput, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return LoadBondsXLSX(path)
	case ".json":
		p, err := LoadPortfolioJSON(path)
		if err != nil {
			return nil, err
		}
		return ToInputs(p.Bonds)
	default:
		return LoadBondsCSV(path)
	}
}

// SaveJSON writes v as indented JSON.
func SaveJSON(path string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(raw, '\n'), 0o644)
}
