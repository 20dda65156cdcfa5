package config

import "github.com/tamzrod/smc-keys/internal/smc"

type Config struct {
	Controller ControllerConfig `yaml:"controller"`
	Trace      TraceConfig      `yaml:"trace"`
	Poll       PollConfig       `yaml:"poll"`
	Log        LogConfig        `yaml:"log"`
}

// ---- CONTROLLER ----

type ControllerConfig struct {
	// Present overrides the build-time capability flag when set.
	Present *bool  `yaml:"present"`
	Driver  string `yaml:"driver"` // lpc | modbus | sim

	// 0 = unbounded (no deadline on the exchange)
	ExchangeTimeoutMs int `yaml:"exchange_timeout_ms"`

	LPC    LPCConfig    `yaml:"lpc"`
	Modbus ModbusConfig `yaml:"modbus"`
	Sim    SimConfig    `yaml:"sim"`
}

const (
	DriverLPC    = "lpc"
	DriverModbus = "modbus"
	DriverSim    = "sim"
)

// ---- LPC PORT I/O ----

type LPCConfig struct {
	Device   string `yaml:"device"`
	DataPort uint16 `yaml:"data_port"`
	CmdPort  uint16 `yaml:"cmd_port"`
}

// ---- MODBUS BRIDGE ----

type ModbusConfig struct {
	Endpoint        string `yaml:"endpoint"`
	UnitID          uint8  `yaml:"unit_id"`
	TimeoutMs       int    `yaml:"timeout_ms"`
	RequestAddress  uint16 `yaml:"request_address"`
	ResponseAddress uint16 `yaml:"response_address"`
}

// ---- SIMULATED CONTROLLER ----

type SimConfig struct {
	Keys []SimKeyConfig `yaml:"keys"`
}

type SimKeyConfig struct {
	Key   string `yaml:"key"`   // FourCC, e.g. "ACID"
	Type  string `yaml:"type"`  // FourCC data type, optional
	Bytes string `yaml:"bytes"` // hex, controller order
}

// ---- TRACE ----

type TraceConfig struct {
	Path    string `yaml:"path"`    // CBOR capture file; empty = off
	Console bool   `yaml:"console"` // debug-level slog lines
}

// ---- POLL ----

type PollConfig struct {
	IntervalMs      int       `yaml:"interval_ms"`
	Keys            []smc.Key `yaml:"keys"` // FourCC literals
	AdapterIdentity bool      `yaml:"adapter_identity"`
}

// ---- LOG ----

type LogConfig struct {
	Level string `yaml:"level"` // debug | info | warn | error
}
