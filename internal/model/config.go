package model

import "time"

// Config holds all runtime settings for pressflag
type Config struct {
	Rules       RulesConfig       `yaml:"rules" mapstructure:"rules"`
	Layout      LayoutConfig      `yaml:"layout" mapstructure:"layout"`
	Columns     ColumnsConfig     `yaml:"columns" mapstructure:"columns"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	History     HistoryConfig     `yaml:"history" mapstructure:"history"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
}

// RulesConfig points at an optional rule store override
type RulesConfig struct {
	File string `yaml:"file" mapstructure:"file"` // Empty means built-in defaults
}

// LayoutConfig describes where things live in the production sheet.
// All indexes are 0-based.
type LayoutConfig struct {
	MetadataRow       int      `yaml:"metadata_row" mapstructure:"metadata_row"`
	DateCol           int      `yaml:"date_col" mapstructure:"date_col"`
	MachineCol        int      `yaml:"machine_col" mapstructure:"machine_col"`
	OperatorCol       int      `yaml:"operator_col" mapstructure:"operator_col"`
	SupervisorCol     int      `yaml:"supervisor_col" mapstructure:"supervisor_col"`
	HeaderRowFirst    int      `yaml:"header_row_first" mapstructure:"header_row_first"`
	HeaderRowSecond   int      `yaml:"header_row_second" mapstructure:"header_row_second"`
	DataStartRow      int      `yaml:"data_start_row" mapstructure:"data_start_row"`
	RemarkMarker      string   `yaml:"remark_marker" mapstructure:"remark_marker"`
	RemarkFallbackRow int      `yaml:"remark_fallback_row" mapstructure:"remark_fallback_row"`
	TargetSheets      []string `yaml:"target_sheets" mapstructure:"target_sheets"`   // Normalized names
	MappingSheets     []string `yaml:"mapping_sheets" mapstructure:"mapping_sheets"` // Normalized names
}

// ColumnsConfig holds the header labels of the production table
type ColumnsConfig struct {
	DieNumber       string `yaml:"die_number" mapstructure:"die_number"`
	DieName         string `yaml:"die_name" mapstructure:"die_name"`
	ProductionRate  string `yaml:"production_rate" mapstructure:"production_rate"`
	RecoveryPercent string `yaml:"recovery_percent" mapstructure:"recovery_percent"`
	Speed           string `yaml:"speed" mapstructure:"speed"`
	Remark          string `yaml:"remark" mapstructure:"remark"`
}

// CacheConfig controls caching of analysis results
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig controls batch parallelism
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Dir           string   `yaml:"dir" mapstructure:"dir"`
	Formats       []string `yaml:"formats" mapstructure:"formats"` // xlsx, csv, json, md
	IncludeFooter bool     `yaml:"include_footer" mapstructure:"include_footer"`
	Verbose       bool     `yaml:"verbose" mapstructure:"verbose"`
}

// HistoryConfig controls the sqlite run history
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// LogConfig controls structured logging
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"` // debug, info, warn, error
}

// DefaultConfig returns the configuration matching the standard
// PRESS PROD SHEET workbook layout
func DefaultConfig() *Config {
	return &Config{
		Layout: DefaultLayout(),
		Columns: ColumnsConfig{
			DieNumber:       "DIE NO.",
			DieName:         "DIE NAME",
			ProductionRate:  "PROD/HOUR",
			RecoveryPercent: "RECOVERY %",
			Speed:           "Speed(mm)",
			Remark:          "REMARK",
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".pressflag-cache",
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   7 * 24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Output: OutputConfig{
			Dir:           ".",
			Formats:       []string{"xlsx"},
			IncludeFooter: true,
		},
		History: HistoryConfig{
			Enabled: false,
			Path:    "pressflag-history.db",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultLayout returns the sheet geometry observed in production workbooks
func DefaultLayout() LayoutConfig {
	return LayoutConfig{
		MetadataRow:       4,
		DateCol:           1,
		MachineCol:        2,
		OperatorCol:       3,
		SupervisorCol:     11,
		HeaderRowFirst:    5,
		HeaderRowSecond:   6,
		DataStartRow:      8,
		RemarkMarker:      "Remarks",
		RemarkFallbackRow: 4,
		TargetSheets:      []string{"pressprod", "pressprodsheet"},
		MappingSheets:     []string{"mapping", "sheet1"},
	}
}
