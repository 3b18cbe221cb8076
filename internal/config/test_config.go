package config

func LoadTestConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 8081,
		},
		JWT: JWTConfig{
			Secret: "test-secret",
		},
		AppConfigPath: "config.json",
	}
}
