// internal/config/config.go
package config

type Config struct {
	Serial    SerialConfig    `yaml:"serial"`
	Slave     SlaveConfig     `yaml:"slave"`
	Registers RegistersConfig `yaml:"registers"`
	SOC       SOCConfig       `yaml:"soc"`
	Log       LogConfig       `yaml:"log"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Mirror    MirrorConfig    `yaml:"mirror"`
}

// ---- SERIAL (bus side) ----

type SerialConfig struct {
	Device   string `yaml:"device"`
	Baud     int    `yaml:"baud"`
	DataBits int    `yaml:"data_bits"`
	Parity   string `yaml:"parity"` // N | E | O
	StopBits int    `yaml:"stop_bits"`

	// 0 = derive t3.5 from line settings
	SilenceUs    int `yaml:"silence_us"`
	TurnaroundMs int `yaml:"turnaround_ms"`

	RS485 RS485Config `yaml:"rs485"`
}

// RS485Config drives RTS as the DE/RE direction line.
type RS485Config struct {
	Enabled              bool `yaml:"enabled"`
	RtsHighDuringSend    bool `yaml:"rts_high_during_send"`
	RtsHighAfterSend     bool `yaml:"rts_high_after_send"`
	DelayRtsBeforeSendMs int  `yaml:"delay_rts_before_send_ms"`
	DelayRtsAfterSendMs  int  `yaml:"delay_rts_after_send_ms"`
	RxDuringTx           bool `yaml:"rx_during_tx"`
}

// ---- SLAVE ----

type SlaveConfig struct {
	ID          uint8  `yaml:"id"`
	OutOfWindow string `yaml:"out_of_window"` // drop | zero_fill
}

// ---- REGISTER WINDOW ----

type RegistersConfig struct {
	Start  uint16            `yaml:"start"`
	Count  uint16            `yaml:"count"`
	Values map[uint16]uint16 `yaml:"values"` // seed values; missing => 0
	SOC    []uint16          `yaml:"soc"`    // mirror addresses
	SOH    *uint16           `yaml:"soh"`
}

// ---- SOC SOURCE ----

type SOCConfig struct {
	Source       string `yaml:"source"` // file | modbus
	Default      *int   `yaml:"default"`
	IntervalMs   int    `yaml:"interval_ms"`
	StaleAfterMs int    `yaml:"stale_after_ms"`
	OutOfRange   string `yaml:"out_of_range"` // clamp | reject

	File   FileSourceConfig   `yaml:"file"`
	Modbus ModbusSourceConfig `yaml:"modbus"`
}

type FileSourceConfig struct {
	Path string `yaml:"path"`
}

type ModbusSourceConfig struct {
	Mode      string `yaml:"mode"` // tcp | rtu
	Endpoint  string `yaml:"endpoint"`
	UnitID    uint8  `yaml:"unit_id"`
	Register  uint16 `yaml:"register"`
	TimeoutMs int    `yaml:"timeout_ms"`

	// rtu only
	Baud     int    `yaml:"baud"`
	DataBits int    `yaml:"data_bits"`
	Parity   string `yaml:"parity"`
	StopBits int    `yaml:"stop_bits"`
}

// ---- OPERATOR SURFACES ----

type LogConfig struct {
	Frames  bool   `yaml:"frames"`
	File    string `yaml:"file"`
	Quiet   bool   `yaml:"quiet"`
	ReportS *int   `yaml:"report_s"`
}

type MetricsConfig struct {
	Listen string `yaml:"listen"`
}

type MirrorConfig struct {
	Listen string `yaml:"listen"` // tcp://host:port
}
