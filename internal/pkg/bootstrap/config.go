package bootstrap

import (
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Config is the full service configuration, loaded once at startup from the
// yaml file named by CONFIG_FILE (default config.yaml), with environment
// fallbacks for the infra endpoints.
type Config struct {
	App struct {
		TaxRate     float64 `yaml:"taxRate"`
		DeliveryFee float64 `yaml:"deliveryFee"`
		CODFee      float64 `yaml:"codFee"`
	} `yaml:"app"`
	Infra struct {
		MySQL struct {
			DSN string `yaml:"dsn"`
		} `yaml:"mysql"`
		Redis struct {
			Addr string `yaml:"addr"`
		} `yaml:"redis"`
		Kafka struct {
			Brokers           []string `yaml:"brokers"`
			NotificationTopic string   `yaml:"notificationTopic"`
		} `yaml:"kafka"`
		Jaeger struct {
			Endpoint string `yaml:"endpoint"`
		} `yaml:"jaeger"`
		Nacos struct {
			ServerAddrs string `yaml:"serverAddrs"`
			Namespace   string `yaml:"namespace"`
			Group       string `yaml:"group"`
		} `yaml:"nacos"`
	} `yaml:"infra"`
}

var (
	current  Config
	loadOnce sync.Once
)

// Init loads the configuration. Safe to call from every main; the file is
// read once.
func Init() error {
	var err error
	loadOnce.Do(func() {
		current = defaults()
		path := getEnv("CONFIG_FILE", "config.yaml")
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			// Missing file is fine: defaults plus env cover local runs.
			return
		}
		err = yaml.Unmarshal(data, &current)
	})
	return err
}

// GetCurrentConfig returns the configuration loaded by Init.
func GetCurrentConfig() Config {
	return current
}

func defaults() Config {
	var c Config
	c.App.TaxRate = 0.05
	c.App.DeliveryFee = 5.00
	c.App.CODFee = 2.00
	c.Infra.MySQL.DSN = getEnv("MYSQL_DSN", "bloom:bloom@tcp(localhost:3306)/bloom?charset=utf8mb4&parseTime=True&loc=UTC")
	c.Infra.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	c.Infra.Kafka.Brokers = []string{getEnv("KAFKA_BROKER", "localhost:9092")}
	c.Infra.Kafka.NotificationTopic = getEnv("KAFKA_NOTIFICATION_TOPIC", "order-notifications")
	c.Infra.Jaeger.Endpoint = getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces")
	c.Infra.Nacos.ServerAddrs = getEnv("NACOS_SERVER_ADDRS", "localhost:8848")
	c.Infra.Nacos.Namespace = getEnv("NACOS_NAMESPACE", "")
	c.Infra.Nacos.Group = getEnv("NACOS_GROUP", "DEFAULT_GROUP")
	return c
}
