package config

import (
	"os"
	"time"

	"github.com/adrg/xdg"
	"github.com/go-faster/errors"
	"gopkg.in/ini.v1"
)

var configFilePath string

type IniFile struct {
	*General
	*Sync
	*Mqtt
	*Websocket
	*Logging
}

type General struct {
	ConsoleHost string
	LocalAddr   string
}

type Sync struct {
	KeepAliveSeconds  int
	FullUpdateSeconds int
	RequestSpacingMs  int
	RetryDelaySeconds int
}

func (s *Sync) KeepAlive() time.Duration {
	return time.Duration(s.KeepAliveSeconds) * time.Second
}

func (s *Sync) FullUpdate() time.Duration {
	return time.Duration(s.FullUpdateSeconds) * time.Second
}

func (s *Sync) RequestSpacing() time.Duration {
	return time.Duration(s.RequestSpacingMs) * time.Millisecond
}

func (s *Sync) RetryDelay() time.Duration {
	return time.Duration(s.RetryDelaySeconds) * time.Second
}

type Mqtt struct {
	Enabled       bool
	Broker        string
	ClientId      string
	Username      string
	Password      string
	TopicPrefix   string
	Qos           int
	PublishMeters bool
}

type Websocket struct {
	Enabled    bool
	ListenAddr string
	Path       string
}

type Logging struct {
	Level  string
	Pretty bool
}

var Config = Default()

// Default returns a fresh configuration holding the built in values.
func Default() IniFile {
	return IniFile{
		&General{
			ConsoleHost: "192.168.1.64:10023",
			LocalAddr:   ":0",
		},
		&Sync{
			KeepAliveSeconds:  9,
			FullUpdateSeconds: 300,
			RequestSpacingMs:  10,
			RetryDelaySeconds: 3,
		},
		&Mqtt{
			Enabled:       false,
			Broker:        "tcp://localhost:1883",
			ClientId:      "",
			TopicPrefix:   "x32",
			Qos:           0,
			PublishMeters: false,
		},
		&Websocket{
			Enabled:    false,
			ListenAddr: ":8023",
			Path:       "/ws",
		},
		&Logging{
			Level:  "info",
			Pretty: true,
		},
	}
}

// InitConfig loads the config file from path, or from the XDG config
// directory when path is empty, into Config. Keys missing from the file
// are written back with their defaults.
func InitConfig(path string) error {
	var err error
	if path == "" {
		if path, err = xdg.ConfigFile("x32-osc/x32-osc.config"); err != nil {
			return errors.Wrap(err, "locate config file")
		}
	}
	configFilePath = path
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	Config = cfg
	defaults := Default()
	return Save(path, &defaults)
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (IniFile, error) {
	out := Default()
	file, err := ini.LooseLoad(path)
	if err != nil {
		return out, errors.Wrapf(err, "load %s", path)
	}
	file.NameMapper = ini.TitleUnderscore
	file.ValueMapper = os.ExpandEnv
	sections := map[string]interface{}{
		"general":   out.General,
		"sync":      out.Sync,
		"mqtt":      out.Mqtt,
		"websocket": out.Websocket,
		"logging":   out.Logging,
	}
	for name, target := range sections {
		if section, err := file.GetSection(name); err == nil {
			if err := section.MapTo(target); err != nil {
				return out, errors.Wrapf(err, "section %s", name)
			}
		}
	}
	return out, nil
}

// Save adds the keys of cfg that the file at path does not have yet.
// Values already in the file are kept as written, so ${VAR} references
// are never replaced by what they expanded to.
func Save(path string, cfg *IniFile) error {
	file, err := ini.LooseLoad(path)
	if err != nil {
		return errors.Wrapf(err, "load %s", path)
	}
	values := ini.Empty()
	if err := ini.ReflectFromWithMapper(values, cfg, ini.TitleUnderscore); err != nil {
		return errors.Wrap(err, "reflect config")
	}
	for _, section := range values.Sections() {
		if len(section.Keys()) == 0 {
			continue
		}
		target := file.Section(section.Name())
		for _, key := range section.Keys() {
			if target.HasKey(key.Name()) {
				continue
			}
			if _, err := target.NewKey(key.Name(), key.Value()); err != nil {
				return errors.Wrapf(err, "key %s.%s", section.Name(), key.Name())
			}
		}
	}
	if err := file.SaveTo(path); err != nil {
		return errors.Wrapf(err, "save %s", path)
	}
	return nil
}

func GetConfigFilePath() string {
	return configFilePath
}
