package bootstrap

import (
	"log"
	"os"
	"sync/atomic"

	"gopkg.in/yaml.v3"
)

// Config 是服务的全量配置。通过 yaml 文件加载，少数敏感项可被环境变量覆盖。
type Config struct {
	App struct {
		LogLevel     string `yaml:"log_level"`
		FeatureFlags struct {
			EnableOfferCache      bool `yaml:"enable_offer_cache"`
			EnableAggregateEvents bool `yaml:"enable_aggregate_events"`
		} `yaml:"feature_flags"`
	} `yaml:"app"`

	// Upstream 是四个上游数据源的基础地址，对应原系统的固定 base URL。
	Upstream struct {
		CartBaseURL    string `yaml:"cart_base_url"`
		PaymentBaseURL string `yaml:"payment_base_url"`
		ProductBaseURL string `yaml:"product_base_url"`
		StockBaseURL   string `yaml:"stock_base_url"`
		FeedURL        string `yaml:"feed_url"`
	} `yaml:"upstream"`

	// OfferLookup 控制关系库查询专用工作池的上界。
	OfferLookup struct {
		MaxWorkers int64 `yaml:"max_workers"`
	} `yaml:"offer_lookup"`

	Infra struct {
		Jaeger struct {
			Endpoint string `yaml:"endpoint"`
		} `yaml:"jaeger"`
		Mysql struct {
			DSN string `yaml:"dsn"`
		} `yaml:"mysql"`
		Mongo struct {
			URI      string `yaml:"uri"`
			Database string `yaml:"database"`
		} `yaml:"mongo"`
		Redis struct {
			Addr       string `yaml:"addr"`
			Password   string `yaml:"password"`
			DB         int    `yaml:"db"`
			TTLSeconds int    `yaml:"ttl_seconds"`
		} `yaml:"redis"`
		Kafka struct {
			Brokers []string `yaml:"brokers"`
			Topic   string   `yaml:"topic"`
		} `yaml:"kafka"`
	} `yaml:"infra"`
}

var currentConfig atomic.Value // *Config

// Init 加载配置文件并填充默认值。必须在 StartService 之前调用。
func Init() {
	path := getEnv("CONFIG_FILE", "config.yaml")

	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("WARN: could not read config file %s: %v, falling back to defaults", path, err)
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		log.Fatalf("FATAL: invalid config file %s: %v", path, err)
	}

	applyDefaults(cfg)
	applyEnvOverrides(cfg)
	currentConfig.Store(cfg)
}

// GetCurrentConfig 返回当前配置快照。
func GetCurrentConfig() *Config {
	cfg, ok := currentConfig.Load().(*Config)
	if !ok {
		log.Fatal("FATAL: bootstrap.Init must be called before GetCurrentConfig")
	}
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.App.LogLevel == "" {
		cfg.App.LogLevel = "info"
	}
	if cfg.OfferLookup.MaxWorkers <= 0 {
		// 阻塞型查询的并发上界，独立于网络扇出使用的调度资源
		cfg.OfferLookup.MaxWorkers = 16
	}
	if cfg.Infra.Jaeger.Endpoint == "" {
		cfg.Infra.Jaeger.Endpoint = "http://localhost:14268/api/traces"
	}
	if cfg.Infra.Mongo.Database == "" {
		cfg.Infra.Mongo.Database = "cartview"
	}
	if cfg.Infra.Redis.TTLSeconds <= 0 {
		cfg.Infra.Redis.TTLSeconds = 300
	}
	if cfg.Infra.Kafka.Topic == "" {
		cfg.Infra.Kafka.Topic = "cart.aggregated"
	}
}

func applyEnvOverrides(cfg *Config) {
	if v, ok := os.LookupEnv("MYSQL_DSN"); ok {
		cfg.Infra.Mysql.DSN = v
	}
	if v, ok := os.LookupEnv("MONGO_URI"); ok {
		cfg.Infra.Mongo.URI = v
	}
	if v, ok := os.LookupEnv("REDIS_ADDR"); ok {
		cfg.Infra.Redis.Addr = v
	}
	if v, ok := os.LookupEnv("REDIS_PASSWORD"); ok {
		cfg.Infra.Redis.Password = v
	}
	if v, ok := os.LookupEnv("JAEGER_ENDPOINT"); ok {
		cfg.Infra.Jaeger.Endpoint = v
	}
}

// getEnv 从环境变量中读取配置，不存在时返回默认值。
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
