// Package config validates raw settings gathered from flags, environment and
// the config file into the Config the commands run with.
package config

import (
	"fmt"
	"time"

	"github.com/jsphweid/barspan/export"
	"github.com/jsphweid/barspan/logging"
	"github.com/jsphweid/barspan/span"
)

// Config holds the validated runtime configuration.
type Config struct {
	BarLength   int     // Fixed bar length in milliseconds (0 = derive from tempo)
	BPM         float64 // Tempo used when BarLength is 0
	BeatsPerBar int
	LogLevel    string
	LogFormat   string
	VizAddr     string        // UDP host:port for snapshots (empty = off)
	VizInterval time.Duration // Minimum spacing between snapshot pushes
	Addr        string        // HTTP bind address for serve
	Port        int           // MIDI input port for listen
	Output      export.Format
	OutputFile  string
	Palette     string
}

// RawInput mirrors the viper keys before validation.
type RawInput struct {
	BarLength   int           `mapstructure:"bar-length"`
	BPM         float64       `mapstructure:"bpm"`
	BeatsPerBar int           `mapstructure:"beats-per-bar"`
	LogLevel    string        `mapstructure:"log-level"`
	LogFormat   string        `mapstructure:"log-format"`
	VizAddr     string        `mapstructure:"viz-addr"`
	VizInterval time.Duration `mapstructure:"viz-interval"`
	Addr        string        `mapstructure:"addr"`
	Port        int           `mapstructure:"port"`
	Output      string        `mapstructure:"output"`
	OutputFile  string        `mapstructure:"output-file"`
	Palette     string        `mapstructure:"palette"`
}

// ProcessAndValidate checks the raw inputs and fills cfg.
func ProcessAndValidate(cfg *Config, input *RawInput) error {
	if input.BarLength < 0 {
		return fmt.Errorf("bar-length cannot be negative (received %d)", input.BarLength)
	}
	if input.BarLength == 0 && input.BPM <= 0 {
		return fmt.Errorf("either bar-length or a positive bpm is required")
	}
	if input.BPM < 0 {
		return fmt.Errorf("bpm cannot be negative (received %v)", input.BPM)
	}
	if input.BarLength == 0 && input.BeatsPerBar <= 0 {
		return fmt.Errorf("beats-per-bar must be greater than 0 (received %d)", input.BeatsPerBar)
	}
	cfg.BarLength = input.BarLength
	cfg.BPM = input.BPM
	cfg.BeatsPerBar = input.BeatsPerBar

	if _, err := logging.New(logging.Options{Level: input.LogLevel, Format: input.LogFormat}); err != nil {
		return err
	}
	cfg.LogLevel = input.LogLevel
	cfg.LogFormat = input.LogFormat

	if input.VizInterval < 0 {
		return fmt.Errorf("viz-interval cannot be negative (received %s)", input.VizInterval)
	}
	cfg.VizAddr = input.VizAddr
	cfg.VizInterval = input.VizInterval

	if input.Port < 0 {
		return fmt.Errorf("port cannot be negative (received %d)", input.Port)
	}
	cfg.Addr = input.Addr
	cfg.Port = input.Port

	format, err := export.ParseFormat(input.Output)
	if err != nil {
		return err
	}
	if format == export.ParquetOut && input.OutputFile == "" {
		return fmt.Errorf("parquet output needs output-file")
	}
	cfg.Output = format
	cfg.OutputFile = input.OutputFile
	cfg.Palette = input.Palette
	return nil
}

// BarLengthSource picks the fixed bar length when set, the tempo otherwise.
func (c *Config) BarLengthSource() span.BarLengthSource {
	if c.BarLength > 0 {
		return span.FixedBarLength(c.BarLength)
	}
	return span.TempoBarLength{BPM: c.BPM, BeatsPerBar: c.BeatsPerBar}
}
