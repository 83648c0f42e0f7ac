// Package configpkg provides parsing functionality for environment variables.
package configpkg

import (
	"errors"
	"net"
	"strings"

	"github.com/spf13/viper"
)

// Supported values of GO_ENV.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Supported values of STORE_DRIVER.
const (
	StoreDynamoDB = "dynamodb"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Supported values of TOKEN_TYPE.
const (
	TokenJWT    = "jwt"
	TokenPaseto = "paseto"
)

// Config stores all configuration of the application.
//
// The values are read by viper from an optional app.env file and environment variables,
// the latter take precedence.
type Config struct {
	ServerAddress             string   `mapstructure:"SERVER_ADDRESS"`
	Port                      string   `mapstructure:"PORT"`
	Environment               string   `mapstructure:"GO_ENV"`
	DebugLogging              bool     `mapstructure:"DEBUG_LOGGING"`
	JWTSecret                 string   `mapstructure:"JWT_SECRET"`
	TokenType                 string   `mapstructure:"TOKEN_TYPE"`
	StoreDriver               string   `mapstructure:"STORE_DRIVER"`
	DynamoDBLocalEndpoint     string   `mapstructure:"DYNAMODB_LOCAL_ENDPOINT"`
	DynamoDBTableNameAccounts string   `mapstructure:"DYNAMODB_TABLE_NAME_ACCOUNTS"`
	AWSRegion                 string   `mapstructure:"AWS_REGION"`
	DBDriver                  string   `mapstructure:"DB_DRIVER"`
	DBSource                  string   `mapstructure:"DB_SOURCE"`
	CORSAllowedOrigins        []string `mapstructure:"CORS_ALLOWED_ORIGINS"`
}

var defaults = map[string]any{
	"SERVER_ADDRESS":               "0.0.0.0:3000",
	"PORT":                         "",
	"GO_ENV":                       EnvProduction,
	"DEBUG_LOGGING":                false,
	"JWT_SECRET":                   "your-secret-whatever",
	"TOKEN_TYPE":                   TokenJWT,
	"STORE_DRIVER":                 StoreDynamoDB,
	"DYNAMODB_LOCAL_ENDPOINT":      "",
	"DYNAMODB_TABLE_NAME_ACCOUNTS": "EnvfooCopernicusAccounts",
	"AWS_REGION":                   "us-east-1",
	"DB_DRIVER":                    "postgres",
	"DB_SOURCE":                    "",
	"CORS_ALLOWED_ORIGINS":         "*",
}

// Load reads configuration from path/app.env, if present, and environment variables.
func Load(path string) (Config, error) {
	var c Config

	v := viper.New()

	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return c, err
		}
	}

	err = v.Unmarshal(&c)
	if err != nil {
		return c, err
	}

	if c.Port != "" {
		c.ServerAddress = withPort(c.ServerAddress, c.Port)
	}

	c.StoreDriver = strings.ToLower(c.StoreDriver)
	c.TokenType = strings.ToLower(c.TokenType)

	return c, nil
}

// IsDevelopment reports whether the app runs in the development environment.
func (c Config) IsDevelopment() bool {
	return c.Environment == EnvDevelopment
}

func withPort(address, port string) string {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		host = address
	}

	return net.JoinHostPort(host, port)
}
