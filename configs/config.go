package configs

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	App struct {
		Name    string `koanf:"name"`
		LogFile string `koanf:"log_file"`
	} `koanf:"app"`

	Gateway struct {
		UserMaxAttempts    int           `koanf:"user_max_attempts"`
		UserAttemptTimeout time.Duration `koanf:"user_attempt_timeout"`
		UserRetryBackoff   time.Duration `koanf:"user_retry_backoff"`
	} `koanf:"gateway"`

	Simulator struct {
		Latency            time.Duration `koanf:"latency"`
		FailureProbability float64       `koanf:"failure_probability"`
	} `koanf:"simulator"`

	Orders struct {
		Catalog []string `koanf:"catalog"`
	} `koanf:"orders"`

	Users struct {
		Seed []SeedUser `koanf:"seed"`
	} `koanf:"users"`
}

type SeedUser struct {
	ID    string `koanf:"id"`
	Email string `koanf:"email"`
}

func Load(pathDir, envName string) (Config, error) {
	k := koanf.New(".")
	// 1) base
	if err := k.Load(file.Provider(fmt.Sprintf("%s/base.yaml", pathDir)), yaml.Parser()); err != nil {
		return Config{}, fmt.Errorf("load base: %w", err)
	}

	// 2) env override (dev/staging/prod). Optional: allow missing for local runs.
	_ = k.Load(file.Provider(fmt.Sprintf("%s/%s.yaml", pathDir, envName)), yaml.Parser())

	// 3) environment variables override (prefix MESHSIM_, nested with __)
	// e.g. MESHSIM_SIMULATOR__LATENCY, MESHSIM_GATEWAY__USER_MAX_ATTEMPTS
	if err := k.Load(env.Provider("MESHSIM_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "MESHSIM_")
		s = strings.ReplaceAll(s, "__", ".")
		return strings.ToLower(s)
	}), nil); err != nil {
		return Config{}, fmt.Errorf("env overlay: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Gateway.UserMaxAttempts <= 0 {
		return fmt.Errorf("gateway.user_max_attempts must be positive")
	}
	if c.Simulator.FailureProbability < 0 || c.Simulator.FailureProbability > 1 {
		return fmt.Errorf("simulator.failure_probability must be within [0,1]")
	}
	if len(c.Orders.Catalog) == 0 {
		return fmt.Errorf("orders.catalog required")
	}
	if len(c.Users.Seed) == 0 {
		return fmt.Errorf("users.seed required")
	}
	for _, u := range c.Users.Seed {
		if u.ID == "" || u.Email == "" {
			return fmt.Errorf("users.seed entries need id and email")
		}
	}
	return nil
}
