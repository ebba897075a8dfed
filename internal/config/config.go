package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type LLMConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
}

type DatabaseConfig struct {
	Driver string `toml:"driver"` // "sqlite" or "postgres"
	DSN    string `toml:"dsn"`
}

type PricingConfig struct {
	// Markup applied on approval when the supplier has none configured.
	DefaultMarkupPercent float64 `toml:"default_markup_percent"`
	Currency             string  `toml:"currency"`
}

type AnalysisConfig struct {
	// Fraction a quoted unit price may sit above target before it is
	// flagged, e.g. 0.10 for the standard 10% band.
	PriceTolerance float64 `toml:"price_tolerance"`
}

type ExtractionPrompts struct {
	Quote string `toml:"quote"`
}

type Config struct {
	LLM        LLMConfig         `toml:"llm"`
	Database   DatabaseConfig    `toml:"database"`
	Pricing    PricingConfig     `toml:"pricing"`
	Analysis   AnalysisConfig    `toml:"analysis"`
	Extraction ExtractionPrompts `toml:"extraction"`
}

// defaultQuotePrompt asks the vision model for the fixed schema the
// extraction package parses. Deployments override it in config.toml when a
// supplier's document style needs steering.
const defaultQuotePrompt = `You are reading a supplier quote document for an interior design project.
Extract the quote into JSON with this exact shape and nothing else:

{
  "supplier": {
    "company_name": "", "quote_number": "", "quote_date": "", "valid_until": "",
    "subtotal": 0, "taxes": 0, "total": 0
  },
  "items": [
    {
      "product_name": "", "sku": "", "quantity": 0, "unit_price": 0,
      "total_price": 0, "brand": "", "description": "", "lead_time": "",
      "is_alternate": false, "notes": ""
    }
  ],
  "notes": ""
}

Omit any field you cannot read. product_name is required for every item.
Mark is_alternate true only when the document says an item is a substitute
for what was requested, and put the supplier's wording in notes.`

func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Driver: "sqlite", DSN: "procura.db"},
		Pricing:  PricingConfig{DefaultMarkupPercent: 25, Currency: "USD"},
		Analysis: AnalysisConfig{PriceTolerance: 0.10},
		Extraction: ExtractionPrompts{
			Quote: defaultQuotePrompt,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return cfg, nil
}
