package internal

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"turnchat/domain"
)

var validate = validator.New()

// ServerConfig defines the server-side environment variables.
type ServerConfig struct {
	Host      string `env:"CHAT_HOST,default=127.0.0.1" validate:"required"`
	Port      int    `env:"CHAT_PORT,default=8080" validate:"gte=1,lte=65535"`
	StartRole string `env:"CHAT_START_ROLE,default=first" validate:"oneof=first second"`
	LogLevel  string `env:"LOG_LEVEL,default=INFO"`
}

func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Initial is the role holding the opening turn.
func (c ServerConfig) Initial() domain.Role {
	return domain.Role(c.StartRole)
}

// ClientConfig defines the client-side environment variables.
type ClientConfig struct {
	ServerAddr string `env:"CHAT_SERVER_ADDR,default=127.0.0.1:8080" validate:"required,hostname_port"`
	LogLevel   string `env:"LOG_LEVEL,default=INFO"`
}

// Validate checks a loaded configuration against its struct tags.
func Validate(cfg any) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
