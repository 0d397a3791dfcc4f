package config

import "os"

type Config struct {
	MongoURI    string
	MongoDB     string
	RedisAddr   string
	HTTPPort    string
	CORSOrigins string
}

func Load() *Config {
	return &Config{
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:     getEnv("MONGO_DB", "formflow"),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		CORSOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
