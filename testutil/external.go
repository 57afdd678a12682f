package testutil

import (
	"os"

	"gopkg.in/yaml.v3"
)

// YAMLDataSource is a validate.ExternalDataSource test double backed by
// a small YAML fixture, so L3 tests can describe registry state as data
// instead of Go code.
//
// Fixture shape:
//
//	lei:
//	  5493006MHB84DD0ZWV18: ISSUED
//	nat_reg:
//	  "gb:12345678": ACTIVE
type YAMLDataSource struct {
	LEI    map[string]string `yaml:"lei"`
	NatReg map[string]string `yaml:"nat_reg"`
}

// LoadYAMLDataSource parses a YAMLDataSource from a fixture file.
func LoadYAMLDataSource(path string) (*YAMLDataSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseYAMLDataSource(data)
}

// ParseYAMLDataSource parses a YAMLDataSource from raw YAML bytes.
func ParseYAMLDataSource(data []byte) (*YAMLDataSource, error) {
	var src YAMLDataSource
	if err := yaml.Unmarshal(data, &src); err != nil {
		return nil, err
	}
	return &src, nil
}

// LEIStatus implements validate.ExternalDataSource.
func (s *YAMLDataSource) LEIStatus(lei string) (string, bool) {
	status, ok := s.LEI[lei]
	return status, ok
}

// NatRegStatus implements validate.ExternalDataSource.
func (s *YAMLDataSource) NatRegStatus(authority, value string) (string, bool) {
	status, ok := s.NatReg[authority+":"+value]
	return status, ok
}
