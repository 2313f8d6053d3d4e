package hermes

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"reflect"
	"time"

	"github.com/joho/godotenv"
	"github.com/lunagic/hermes/hermesservices/cache"
	"github.com/lunagic/hermes/hermesservices/database"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type AppConfig struct {
	// App
	AppLogLevel      string        `env:"APP_LOG_LEVEL" mapstructure:"app_log_level"`
	AppTableCacheTTL time.Duration `env:"APP_TABLE_CACHE_TTL" mapstructure:"app_table_cache_ttl"`
	// App Drivers
	AppDriverDatabase string `env:"APP_DRIVER_DATABASE" mapstructure:"app_driver_database"`
	AppDriverCache    string `env:"APP_DRIVER_CACHE" mapstructure:"app_driver_cache"`
	// Services
	MySQLHost     string `env:"MYSQL_HOST" mapstructure:"mysql_host"`
	MySQLName     string `env:"MYSQL_NAME" mapstructure:"mysql_name"`
	MySQLPass     string `env:"MYSQL_PASS" mapstructure:"mysql_pass"`
	MySQLPort     int    `env:"MYSQL_PORT" mapstructure:"mysql_port"`
	MySQLUser     string `env:"MYSQL_USER" mapstructure:"mysql_user"`
	OracleHost    string `env:"ORACLE_HOST" mapstructure:"oracle_host"`
	OraclePass    string `env:"ORACLE_PASS" mapstructure:"oracle_pass"`
	OraclePort    int    `env:"ORACLE_PORT" mapstructure:"oracle_port"`
	OracleService string `env:"ORACLE_SERVICE" mapstructure:"oracle_service"`
	OracleUser    string `env:"ORACLE_USER" mapstructure:"oracle_user"`
	PostgresHost  string `env:"POSTGRES_HOST" mapstructure:"postgres_host"`
	PostgresName  string `env:"POSTGRES_NAME" mapstructure:"postgres_name"`
	PostgresPass  string `env:"POSTGRES_PASS" mapstructure:"postgres_pass"`
	PostgresPort  int    `env:"POSTGRES_PORT" mapstructure:"postgres_port"`
	PostgresUser  string `env:"POSTGRES_USER" mapstructure:"postgres_user"`
	RedisHost     string `env:"REDIS_HOST" mapstructure:"redis_host"`
	RedisNumber   int    `env:"REDIS_NUMBER" mapstructure:"redis_number"`
	RedisPass     string `env:"REDIS_PASS" mapstructure:"redis_pass"`
	RedisPort     int    `env:"REDIS_PORT" mapstructure:"redis_port"`
	RedisUser     string `env:"REDIS_USER" mapstructure:"redis_user"`
	SQLServerHost string `env:"SQLSERVER_HOST" mapstructure:"sqlserver_host"`
	SQLServerName string `env:"SQLSERVER_NAME" mapstructure:"sqlserver_name"`
	SQLServerPass string `env:"SQLSERVER_PASS" mapstructure:"sqlserver_pass"`
	SQLServerPort int    `env:"SQLSERVER_PORT" mapstructure:"sqlserver_port"`
	SQLServerUser string `env:"SQLSERVER_USER" mapstructure:"sqlserver_user"`
	SQLitePath    string `env:"SQLITE_PATH" mapstructure:"sqlite_path"`
}

func NewConfig() AppConfig {
	return AppConfig{
		AppDriverCache:    "memory",
		AppDriverDatabase: "sqlite",
		AppLogLevel:       "info",
		AppTableCacheTTL:  time.Minute,
		MySQLHost:         "127.0.0.1",
		MySQLPort:         3306,
		OracleHost:        "127.0.0.1",
		OraclePort:        1521,
		PostgresHost:      "127.0.0.1",
		PostgresPort:      5432,
		RedisHost:         "127.0.0.1",
		RedisPort:         6379,
		SQLServerHost:     "127.0.0.1",
		SQLServerPort:     1433,
		SQLitePath:        "database.sqlite",
	}
}

// LoadConfig layers the environment (including a .env file in the working
// directory) over configFile, which is optional, over NewConfig.
func LoadConfig(configFile string) (AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return AppConfig{}, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()

	defaults := NewConfig()
	defaultValues := reflect.ValueOf(defaults)
	for _, field := range reflect.VisibleFields(reflect.TypeFor[AppConfig]()) {
		key := field.Tag.Get("mapstructure")
		v.SetDefault(key, defaultValues.FieldByIndex(field.Index).Interface())
		if err := v.BindEnv(key, field.Tag.Get("env")); err != nil {
			return AppConfig{}, err
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return AppConfig{}, fmt.Errorf("reading %s: %w", configFile, err)
		}
	}

	config := AppConfig{}
	if err := v.Unmarshal(&config); err != nil {
		return AppConfig{}, err
	}

	return config, nil
}

func (config AppConfig) Logger() *slog.Logger {
	level := slog.LevelInfo
	_ = level.UnmarshalText([]byte(config.AppLogLevel))

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func (config AppConfig) ZapLogger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(config.AppLogLevel)
	if err != nil {
		return nil, err
	}

	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = level

	return zapConfig.Build()
}

func (config AppConfig) Database(configFuncs ...database.ServiceConfigFunc) (*database.Service, error) {
	switch config.AppDriverDatabase {
	case "sqlite":
		return database.New(
			database.NewDriverSQLite(config.SQLitePath),
			configFuncs...,
		)
	case "postgres":
		return database.New(
			database.NewDriverPostgres(database.DriverPostgresConfig{
				Host: config.PostgresHost,
				Port: config.PostgresPort,
				User: config.PostgresUser,
				Pass: config.PostgresPass,
				Name: config.PostgresName,
			}),
			configFuncs...,
		)
	case "mysql":
		return database.New(
			database.NewDriverMySQL(database.DriverMySQLConfig{
				Host: config.MySQLHost,
				Port: config.MySQLPort,
				User: config.MySQLUser,
				Pass: config.MySQLPass,
				Name: config.MySQLName,
			}),
			configFuncs...,
		)
	case "sqlserver":
		return database.New(
			database.NewDriverSQLServer(database.DriverSQLServerConfig{
				Host: config.SQLServerHost,
				Port: config.SQLServerPort,
				User: config.SQLServerUser,
				Pass: config.SQLServerPass,
				Name: config.SQLServerName,
			}),
			configFuncs...,
		)
	case "oracle":
		return database.New(
			database.NewDriverOracle(database.DriverOracleConfig{
				Host:    config.OracleHost,
				Port:    config.OraclePort,
				User:    config.OracleUser,
				Pass:    config.OraclePass,
				Service: config.OracleService,
			}),
			configFuncs...,
		)
	}

	return nil, fmt.Errorf("invalid database driver: %s", config.AppDriverDatabase)
}

func (config AppConfig) Cache() (cache.Driver, error) {
	switch config.AppDriverCache {
	case "memory":
		return cache.NewDriverMemory()
	case "redis":
		return cache.NewDriverRedis(cache.DriverRedisConfig{
			Host:   config.RedisHost,
			Number: config.RedisNumber,
			Pass:   config.RedisPass,
			Port:   config.RedisPort,
			User:   config.RedisUser,
		})
	}

	return nil, fmt.Errorf("invalid cache driver: %s", config.AppDriverCache)
}
