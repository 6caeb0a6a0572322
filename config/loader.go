package config

// loader.go - configuration loading through viper.
//
// Precedence order (highest wins):
//   1. CLI flags that were set (bound from cmd/root.go)
//   2. Environment variables  NETSHELL_<KEY>, "-" spelled "_"
//   3. Config file            --config or NETSHELL_CONFIG (YAML, TOML, JSON)
//   4. Defaults               (defaults.go)
//
// Keys are the long flag names.  Two keys exist only in the environment
// and the config file, never on the command line: "password" (the SSH
// login password) and "enable-password".

import (
	"strconv"
	"strings"
	"time"

	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	ncerr "netshell/internal/errors"
)

// Key names shared by flags, environment variables and config files.
const (
	KeyConfig         = "config"
	KeyUser           = "user"
	KeyPort           = "port"
	KeyDomain         = "domain"
	KeyPassword       = "password"
	KeyPromptPassword = "ssh-password"
	KeySSHKey         = "ssh-key"
	KeySSHAgent       = "ssh-agent"
	KeyStrictHostKey  = "strict-hostkey"
	KeyKnownHosts     = "known-hosts"
	KeyEnablePassword = "enable-password"
	KeyPromptEnable   = "enable"
	KeyProfile        = "profile"
	KeyBoundary       = "boundary"
	KeyProbe          = "probe"
	KeyConfigure      = "configure"
	KeyTimeout        = "timeout"
	KeyConnTimeout    = "connect-timeout"
	KeyConnectRetries = "connect-retries"
	KeyDebug          = "debug"
	KeyDeepDebug      = "deep-debug"
	KeyFormat         = "format"
	KeyStats          = "stats"
	KeyVerbose        = "verbose"
)

// Load merges defaults, the config file, the environment and the flags
// in fs into a Config.  fs may be nil.  Host and Commands come from
// positional arguments and are left empty.
func Load(fs *flag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, err
		}
	}

	if file := v.GetString(KeyConfig); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, &ncerr.ConfigError{
				Field:   KeyConfig,
				Value:   file,
				Message: err.Error(),
				Hint:    "config files may be YAML, TOML or JSON; the extension selects the parser",
			}
		}
	}
	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(KeyPort, d.Port)
	v.SetDefault(KeyProfile, d.Profile)
	v.SetDefault(KeyTimeout, d.Timeout.String())
	v.SetDefault(KeyConnTimeout, d.ConnTimeout.String())
	v.SetDefault(KeyConnectRetries, d.ConnectRetries)
	v.SetDefault(KeyFormat, d.Format)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Domain:         v.GetString(KeyDomain),
		Port:           v.GetInt(KeyPort),
		Profile:        v.GetString(KeyProfile),
		Boundary:       v.GetString(KeyBoundary),
		Probe:          v.GetString(KeyProbe),
		EnablePassword: v.GetString(KeyEnablePassword),
		PromptEnable:   v.GetBool(KeyPromptEnable),

		User:              v.GetString(KeyUser),
		SSHPassword:       v.GetString(KeyPassword),
		PromptSSHPassword: v.GetBool(KeyPromptPassword),
		SSHKeyPath:        v.GetString(KeySSHKey),
		UseSSHAgent:       v.GetBool(KeySSHAgent),
		StrictHostKey:     v.GetBool(KeyStrictHostKey),
		KnownHostsPath:    v.GetString(KeyKnownHosts),
		ConnectRetries:    v.GetInt(KeyConnectRetries),

		Configure: v.GetBool(KeyConfigure),

		Verbose:   v.GetInt(KeyVerbose),
		Debug:     v.GetBool(KeyDebug),
		DeepDebug: v.GetBool(KeyDeepDebug),
		Format:    strings.ToLower(v.GetString(KeyFormat)),
		Stats:     v.GetBool(KeyStats),
	}

	var err error
	if cfg.Timeout, err = duration(v, KeyTimeout); err != nil {
		return nil, err
	}
	if cfg.ConnTimeout, err = duration(v, KeyConnTimeout); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ── helpers ──────────────────────────────────────────────────────────

// duration accepts whole seconds ("30") as well as Go durations ("1m").
func duration(v *viper.Viper, key string) (time.Duration, error) {
	s := strings.TrimSpace(v.GetString(key))
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, &ncerr.ConfigError{
			Field:   key,
			Value:   s,
			Message: "not a duration",
			Hint:    "use whole seconds (30) or a unit suffix (30s, 2m)",
		}
	}
	return d, nil
}
