package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds process-level configuration read from the environment.
// Application state (users, campaigns, integrations) lives in the JSON
// config file managed by Store.
type Config struct {
	Server ServerConfig
	JWT    JWTConfig
	S3     S3Config

	// AppConfigPath points at the JSON application config file.
	AppConfigPath string
}

type ServerConfig struct {
	Host string
	Port int
}

type JWTConfig struct {
	Secret string
}

type S3Config struct {
	BucketName string
	Endpoint   string
	Region     string
	AccessKey  string
	SecretKey  string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
		},
		S3: S3Config{
			BucketName: getEnv("S3_BUCKET_NAME", ""),
			Endpoint:   getEnv("S3_ENDPOINT", ""),
			Region:     getEnv("S3_REGION", ""),
			AccessKey:  getEnv("S3_ACCESS_KEY", ""),
			SecretKey:  getEnv("S3_SECRET_KEY", ""),
		},
		AppConfigPath: getEnv("CONFIG_PATH", "config.json"),
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
