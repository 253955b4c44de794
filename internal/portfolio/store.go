package portfolio

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"FundRadar/internal/model"
)

// Load reads a portfolio from a JSON file. Returns an empty portfolio
// if the file doesn't exist.
func Load(filePath string) (*model.Portfolio, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &model.Portfolio{Funds: make(map[string]*model.FundPosition)}, nil
		}
		return nil, fmt.Errorf("read portfolio: %w", err)
	}
	var p model.Portfolio
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse portfolio: %w", err)
	}
	if p.Funds == nil {
		p.Funds = make(map[string]*model.FundPosition)
	}
	return &p, nil
}

// Save writes the portfolio to a JSON file, creating parent directories
// as needed.
func Save(filePath string, p *model.Portfolio) error {
	p.UpdatedAt = time.Now().Format("2006-01-02 15:04:05")
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("create portfolio dir: %w", err)
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}
