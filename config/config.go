package config

import (
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀，例如 TILEGAME_SERVER_HTTP_ADDRESS
const EnvPrefix = "TILEGAME"

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Game     GameConfig     `mapstructure:"game"`
	Lexicon  LexiconConfig  `mapstructure:"lexicon"`
	Database DatabaseConfig `mapstructure:"database"`
	Events   EventsConfig   `mapstructure:"events"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	HTTPAddress    string        `mapstructure:"http_address"`
	RPCAddress     string        `mapstructure:"rpc_address"`
	MetricsAddress string        `mapstructure:"metrics_address"`
	Heartbeat      time.Duration `mapstructure:"heartbeat"`
}

type GameConfig struct {
	MaxPlayers   int           `mapstructure:"max_players"`
	EndedRoomTTL time.Duration `mapstructure:"ended_room_ttl"`
}

// LexiconConfig 词典后端: memory | sqlite | postgres | gorm
type LexiconConfig struct {
	Backend    string        `mapstructure:"backend"`
	WordsFile  string        `mapstructure:"words_file"`
	SeedFile   string        `mapstructure:"seed_file"`
	SQLitePath string        `mapstructure:"sqlite_path"`
	Timeout    time.Duration `mapstructure:"timeout"`
	Retry      RetryConfig   `mapstructure:"retry"`
}

type RetryConfig struct {
	Attempts uint          `mapstructure:"attempts"`
	Delay    time.Duration `mapstructure:"delay"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

type EventsConfig struct {
	NATSURL string `mapstructure:"nats_url"`
	Subject string `mapstructure:"subject"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.http_address", ":8080")
	v.SetDefault("server.rpc_address", ":9090")
	v.SetDefault("server.metrics_address", ":2112")
	v.SetDefault("server.heartbeat", 60*time.Second)

	v.SetDefault("game.max_players", 4)
	v.SetDefault("game.ended_room_ttl", 5*time.Minute)

	v.SetDefault("lexicon.backend", "memory")
	v.SetDefault("lexicon.words_file", "")
	v.SetDefault("lexicon.seed_file", "")
	v.SetDefault("lexicon.sqlite_path", "dictionary.db")
	v.SetDefault("lexicon.timeout", 5*time.Second)
	v.SetDefault("lexicon.retry.attempts", 3)
	v.SetDefault("lexicon.retry.delay", 100*time.Millisecond)

	v.SetDefault("database.postgres.host", "localhost")
	v.SetDefault("database.postgres.port", 5432)
	v.SetDefault("database.postgres.user", "postgres")
	v.SetDefault("database.postgres.password", "")
	v.SetDefault("database.postgres.dbname", "tilegame")

	v.SetDefault("events.nats_url", "")
	v.SetDefault("events.subject", "tilegame.rooms")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}

// LoadConfig 读取 path 下的 .env 与 config.yaml；文件不存在时使用默认值，
// 环境变量优先级最高。
func LoadConfig(path string) (*Config, error) {
	// .env 可选
	_ = godotenv.Load(filepath.Join(path, ".env"))

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}
