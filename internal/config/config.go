package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything the gateway process needs to run.
type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	Redis    RedisConfig
	Mongo    MongoConfig
	Presence PresenceConfig
	Typing   TypingConfig
	Cache    CacheConfig
}

type ServerConfig struct {
	Address string
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwtSecret"`
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type MongoConfig struct {
	URI      string
	Database string
}

type PresenceConfig struct {
	GracePeriod time.Duration `mapstructure:"gracePeriod"`
	RecordTTL   time.Duration `mapstructure:"recordTTL"`
}

type TypingConfig struct {
	ExpireAfter time.Duration `mapstructure:"expireAfter"`
	StateTTL    time.Duration `mapstructure:"stateTTL"`
}

type CacheConfig struct {
	MembershipCapacity int           `mapstructure:"membershipCapacity"`
	SweepInterval      time.Duration `mapstructure:"sweepInterval"`
	DecisionTTL        time.Duration `mapstructure:"decisionTTL"`
	MembershipTTL      time.Duration `mapstructure:"membershipTTL"`
}

// Load reads configuration from an optional yaml file and environment
// variables prefixed with GATEWAY (e.g. GATEWAY_REDIS_ADDRESS).
func Load(fileName string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.address", ":8080")
	v.SetDefault("auth.jwtSecret", "")
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "unitychat")
	v.SetDefault("presence.gracePeriod", "5s")
	v.SetDefault("presence.recordTTL", "5m")
	v.SetDefault("typing.expireAfter", "5s")
	v.SetDefault("typing.stateTTL", "10s")
	v.SetDefault("cache.membershipCapacity", 1000)
	v.SetDefault("cache.sweepInterval", "1m")
	v.SetDefault("cache.decisionTTL", "5m")
	v.SetDefault("cache.membershipTTL", "5m")

	v.SetConfigName(fileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("GATEWAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
