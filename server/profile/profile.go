package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Profile is the runtime configuration of the server process.
type Profile struct {
	// Mode is "prod" or "dev".
	Mode string
	// Addr is the bind address, empty for all interfaces.
	Addr string
	// Port is the bind port.
	Port int
	// Data is the directory for local state (sqlite db, conversation cache).
	Data string
	// Driver is the database driver: sqlite, mysql or postgres.
	Driver string
	// DSN is the database connection string for mysql and postgres.
	DSN string
	// Secret signs and verifies access tokens.
	Secret string
	// AnthropicAPIKey authenticates against the completion API. Empty means
	// chat turns are rejected with a configuration error.
	AnthropicAPIKey string
	// AnthropicModel overrides the default completion model.
	AnthropicModel string
	// ModelTimeout bounds one model invocation.
	ModelTimeout time.Duration
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// Validate normalizes the profile and checks the data directory exists.
func (p *Profile) Validate() error {
	if p.Mode != "prod" && p.Mode != "dev" {
		p.Mode = "dev"
	}
	if p.Driver == "" {
		p.Driver = "sqlite"
	}
	switch p.Driver {
	case "sqlite", "mysql", "postgres":
	default:
		return errors.Errorf("unsupported driver %q", p.Driver)
	}
	if p.Driver != "sqlite" && p.DSN == "" {
		return errors.Errorf("dsn is required for driver %q", p.Driver)
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		return err
	}
	p.Data = dataDir
	if p.Driver == "sqlite" && p.DSN == "" {
		p.DSN = filepath.Join(dataDir, fmt.Sprintf("forkful_%s.db", p.Mode))
	}
	if p.ModelTimeout <= 0 {
		p.ModelTimeout = 45 * time.Second
	}
	return nil
}

// GetProfile reads the profile from viper, which has flags and FORKFUL_*
// environment variables bound already.
func GetProfile() (*Profile, error) {
	p := &Profile{
		Mode:            viper.GetString("mode"),
		Addr:            viper.GetString("addr"),
		Port:            viper.GetInt("port"),
		Data:            viper.GetString("data"),
		Driver:          viper.GetString("driver"),
		DSN:             viper.GetString("dsn"),
		Secret:          viper.GetString("secret"),
		AnthropicAPIKey: viper.GetString("anthropic-api-key"),
		AnthropicModel:  viper.GetString("anthropic-model"),
		ModelTimeout:    viper.GetDuration("model-timeout"),
	}
	if p.AnthropicAPIKey == "" {
		p.AnthropicAPIKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func checkDataDir(dataDir string) (string, error) {
	if dataDir == "" {
		dataDir = "."
	}
	absDir, err := filepath.Abs(dataDir)
	if err != nil {
		return "", errors.Wrapf(err, "resolve data dir %q", dataDir)
	}
	if fi, err := os.Stat(absDir); err != nil || !fi.IsDir() {
		return "", errors.Errorf("data dir %q does not exist", absDir)
	}
	return absDir, nil
}
