// Package config loads the host tool configuration using viper.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	hostlog "github.com/ystepanoff/nrfsniff/host/log"
	"github.com/ystepanoff/nrfsniff/host/serial"
	proto "github.com/ystepanoff/nrfsniff/protocol"
	"github.com/ystepanoff/nrfsniff/sniffer"
)

// EnvPrefix prefixes environment overrides, e.g. NRFSNIFF_SERIAL_PORT.
const EnvPrefix = "NRFSNIFF"

// Config is the top-level host configuration.
type Config struct {
	Serial  SerialConfig   `mapstructure:"serial" yaml:"serial"`
	Radio   RadioConfig    `mapstructure:"radio" yaml:"radio"`
	Capture CaptureConfig  `mapstructure:"capture" yaml:"capture"`
	Log     hostlog.Config `mapstructure:"log" yaml:"log"`
}

// SerialConfig selects the dongle's UART.
type SerialConfig struct {
	Port               string `mapstructure:"port" yaml:"port"`
	serial.PortOptions `mapstructure:",squash" yaml:",inline"`
}

// RadioConfig holds the link parameters as written in the config file.
type RadioConfig struct {
	Channel       int    `mapstructure:"channel" yaml:"channel"`
	Address       string `mapstructure:"address" yaml:"address"` // prefix first, 10 hex digits
	Bitrate       string `mapstructure:"bitrate" yaml:"bitrate"`
	Protocol      string `mapstructure:"protocol" yaml:"protocol"`
	PayloadLength int    `mapstructure:"payload_length" yaml:"payload_length"`
}

// CaptureConfig controls timestamping and output.
type CaptureConfig struct {
	ReloadInterval uint32 `mapstructure:"reload_interval" yaml:"reload_interval"`
	QueueSize      int    `mapstructure:"queue_size" yaml:"queue_size"`
	Pcap           string `mapstructure:"pcap" yaml:"pcap"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	def := sniffer.DefaultParameters()

	v.SetDefault("serial.port", "")
	v.SetDefault("serial.baud_rate", serial.DefaultBaudRate)
	v.SetDefault("serial.data_bits", 8)
	v.SetDefault("serial.stop_bits", 1)
	v.SetDefault("serial.parity", "N")

	v.SetDefault("radio.channel", int(def.Channel))
	v.SetDefault("radio.address", def.Address.String())
	v.SetDefault("radio.bitrate", "2mbps")
	v.SetDefault("radio.protocol", "dpl")
	v.SetDefault("radio.payload_length", proto.DefaultPayloadLength)

	v.SetDefault("capture.reload_interval", proto.DefaultReloadInterval)
	v.SetDefault("capture.queue_size", 64)
	v.SetDefault("capture.pcap", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file.max_size", 10)
	v.SetDefault("log.file.max_backups", 3)
	v.SetDefault("log.file.max_age", 7)
}

// Load reads path (if non-empty) into v, applies defaults and environment
// overrides, and decodes the result.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise only fail deep inside a run.
func (c *Config) Validate() error {
	if _, err := c.Parameters(); err != nil {
		return err
	}
	if _, err := c.Serial.Normalize(); err != nil {
		return fmt.Errorf("serial: %w", err)
	}
	if c.Capture.ReloadInterval == 0 {
		return fmt.Errorf("capture: %w", proto.ErrInvalidInterval)
	}
	return nil
}

// Parameters converts the radio section into sniffer parameters.
func (c *Config) Parameters() (sniffer.Parameters, error) {
	p := sniffer.DefaultParameters()

	if c.Radio.Channel < 0 || c.Radio.Channel > proto.MaxChannel {
		return p, fmt.Errorf("radio: %w", proto.ErrInvalidChannel)
	}
	p.Channel = uint8(c.Radio.Channel)

	addr, err := proto.ParseAddress(c.Radio.Address)
	if err != nil {
		return p, fmt.Errorf("radio: %w", err)
	}
	p.Address = addr

	if p.Radio.Bitrate, err = proto.ParseBitrate(c.Radio.Bitrate); err != nil {
		return p, fmt.Errorf("radio: %w", err)
	}
	if p.Radio.Protocol, err = proto.ParseProtocol(c.Radio.Protocol); err != nil {
		return p, fmt.Errorf("radio: %w", err)
	}
	if c.Radio.PayloadLength < 0 || c.Radio.PayloadLength > proto.MaxPayloadLength {
		return p, fmt.Errorf("radio: %w", proto.ErrInvalidPayload)
	}
	p.Radio.PayloadLength = uint8(c.Radio.PayloadLength)
	return p, nil
}
