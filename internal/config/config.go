// Package config loads process configuration: code defaults, overlaid by an
// optional YAML file, overlaid by environment variables.
package config

import (
	"fmt"
	"net/url"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// ServerConfig is the listen address of an HTTP surface.
type ServerConfig struct {
	Host string `yaml:"host" env:"HOST"`
	Port string `yaml:"port" env:"PORT"`
}

// TLSConfig enables TLS on the control server.
type TLSConfig struct {
	Enabled    bool   `yaml:"enabled" env:"ENABLED"`
	CertFile   string `yaml:"certFile" env:"CERT_FILE"`
	KeyFile    string `yaml:"keyFile" env:"KEY_FILE"`
	MinVersion string `yaml:"minVersion" env:"MIN_VERSION"`
}

// ControlConfig configures the control process (presenterd).
type ControlConfig struct {
	Server    ServerConfig `yaml:"server" envPrefix:"SERVER_"`
	TLS       TLSConfig    `yaml:"tls" envPrefix:"TLS_"`
	DataDir   string       `yaml:"dataDir" env:"DATA_DIR"`
	PublicURL string       `yaml:"publicUrl" env:"PUBLIC_URL"`
	// OpenPath, when set, loads a bundle at startup (double-click launch).
	OpenPath string `yaml:"openPath" env:"OPEN_PATH"`
}

// OutputConfig configures an output process (outputd).
type OutputConfig struct {
	ControlURL string  `yaml:"controlUrl" env:"CONTROL_URL"`
	MediaURL   string  `yaml:"mediaUrl" env:"MEDIA_URL"`
	ListenAddr string  `yaml:"listenAddr" env:"LISTEN_ADDR"`
	Width      float64 `yaml:"width" env:"SURFACE_WIDTH"`
	Height     float64 `yaml:"height" env:"SURFACE_HEIGHT"`
	Name       string  `yaml:"name" env:"OUTPUT_NAME"`
}

// LoadControl builds the control config. The YAML file named by
// PRESENTER_CONFIG (default ./presenterd.yaml) is optional.
func LoadControl() (*ControlConfig, error) {
	cfg := &ControlConfig{
		Server:  ServerConfig{Host: "127.0.0.1", Port: "7070"},
		TLS:     TLSConfig{MinVersion: "1.2"},
		DataDir: "./data",
	}
	if err := overlay(cfg, "PRESENTER_CONFIG", "presenterd.yaml"); err != nil {
		return nil, err
	}
	if cfg.PublicURL == "" {
		cfg.PublicURL = "ws://" + cfg.Server.Host + ":" + cfg.Server.Port + "/ws/output"
	}
	return cfg, nil
}

// LoadOutput builds the output config. The YAML file named by OUTPUT_CONFIG
// (default ./outputd.yaml) is optional.
func LoadOutput() (*OutputConfig, error) {
	cfg := &OutputConfig{
		ControlURL: "ws://127.0.0.1:7070/ws/output",
		ListenAddr: "127.0.0.1:7071",
		Width:      1920,
		Height:     1080,
	}
	if err := overlay(cfg, "OUTPUT_CONFIG", "outputd.yaml"); err != nil {
		return nil, err
	}
	if cfg.MediaURL == "" {
		cfg.MediaURL = deriveMediaURL(cfg.ControlURL)
	}
	return cfg, nil
}

// overlay applies the optional YAML file, then environment variables on top.
func overlay(cfg any, pathEnv, defaultPath string) error {
	path := os.Getenv(pathEnv)
	if path == "" {
		path = defaultPath
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse config file %s: %w", path, err)
		}
	}
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// deriveMediaURL maps the websocket attach URL onto the control HTTP base
// serving media bytes.
func deriveMediaURL(controlURL string) string {
	u, err := url.Parse(controlURL)
	if err != nil {
		return controlURL
	}
	switch u.Scheme {
	case "wss":
		u.Scheme = "https"
	default:
		u.Scheme = "http"
	}
	u.Path = ""
	return u.String()
}
