package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Addr     string `envconfig:"CHATWIRE_ADDR" default:":8080"`
	DBDriver string `envconfig:"CHATWIRE_DB_DRIVER" default:"sqlite3"`
	DBDSN    string `envconfig:"CHATWIRE_DB_DSN" default:"chatwire.db"`

	// JWTSecret signs session tokens. The default exists for local
	// development only; set a real secret in any deployed environment.
	JWTSecret string        `envconfig:"CHATWIRE_JWT_SECRET" default:"dev-secret-change-me"`
	TokenTTL  time.Duration `envconfig:"CHATWIRE_TOKEN_TTL" default:"24h"`

	// AttachmentDir is the filesystem root for uploaded files; the
	// pictures/ and videos/ subdirectories are created under it and
	// served statically. BaseURL is the public prefix they resolve under.
	AttachmentDir string `envconfig:"CHATWIRE_ATTACHMENT_DIR" default:"public"`
	BaseURL       string `envconfig:"CHATWIRE_BASE_URL" default:"http://localhost:8080"`

	// Environment gates whether internal error details are echoed to
	// clients. Anything other than "production" is treated as dev.
	Environment string `envconfig:"CHATWIRE_ENV" default:"development"`
}

func Load() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}

func (c Config) Production() bool {
	return c.Environment == "production"
}
