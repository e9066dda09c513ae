// Package alcoaconf loads the run-provenance configuration used when
// ALCOA+ mode is enabled from the command line. The web front end
// collects the same fields from the upload form instead.
package alcoaconf

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/santuchal/sdf-to-smiles/internal/convert"
)

// Config is the on-disk provenance document.
//
// operator, contact and purpose are required: provenance columns with
// an anonymous operator or no stated purpose are worse than none.
type Config struct {
	Operator        string `yaml:"operator"`
	Contact         string `yaml:"contact"`
	Purpose         string `yaml:"purpose"`
	StoragePlan     string `yaml:"storage_plan"`
	DatasetID       string `yaml:"dataset_id"`
	ProcessingLabel string `yaml:"processing_label"`
}

// Load reads and validates the YAML config at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("alcoaconf: read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("alcoaconf: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("alcoaconf: %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks the required fields.
func (c *Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Operator) == "" {
		missing = append(missing, "operator")
	}
	if strings.TrimSpace(c.Contact) == "" {
		missing = append(missing, "contact")
	}
	if strings.TrimSpace(c.Purpose) == "" {
		missing = append(missing, "purpose")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Metadata binds the config to one run: fileHash is the SHA-256 of the
// input file being converted.
func (c *Config) Metadata(fileHash string) convert.AlcoaMetadata {
	return convert.AlcoaMetadata{
		Operator:        strings.TrimSpace(c.Operator),
		Contact:         strings.TrimSpace(c.Contact),
		Purpose:         strings.TrimSpace(c.Purpose),
		StoragePlan:     strings.TrimSpace(c.StoragePlan),
		DatasetID:       strings.TrimSpace(c.DatasetID),
		ProcessingLabel: strings.TrimSpace(c.ProcessingLabel),
		FileHash:        fileHash,
	}
}
