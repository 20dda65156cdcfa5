package config

// Defaults applied by Normalize.
const (
	DefaultLPCDevice      = "/dev/port"
	DefaultLPCDataPort    = 0x300
	DefaultLPCCmdPort     = 0x304
	DefaultModbusTimeout  = 1000
	DefaultModbusResponse = 64
	DefaultPollInterval   = 5000
	DefaultLogLevel       = "info"
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	c := &cfg.Controller

	if c.Driver == "" {
		c.Driver = DriverLPC
	}

	switch c.Driver {
	case DriverLPC:
		if c.LPC.Device == "" {
			c.LPC.Device = DefaultLPCDevice
		}
		if c.LPC.DataPort == 0 {
			c.LPC.DataPort = DefaultLPCDataPort
		}
		if c.LPC.CmdPort == 0 {
			c.LPC.CmdPort = DefaultLPCCmdPort
		}

	case DriverModbus:
		if c.Modbus.TimeoutMs == 0 {
			c.Modbus.TimeoutMs = DefaultModbusTimeout
		}
		// Response block defaults to sitting right after the request block.
		if c.Modbus.ResponseAddress == 0 && c.Modbus.RequestAddress == 0 {
			c.Modbus.ResponseAddress = DefaultModbusResponse
		}
	}

	if cfg.Poll.IntervalMs == 0 {
		cfg.Poll.IntervalMs = DefaultPollInterval
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
}
