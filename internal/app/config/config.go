package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store backend selectors.
const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

type Config struct {
	HTTPAddr string

	// Store selects the persistence backend. The cart is a local store
	// first; sqlite is the default, postgres is for shared deployments.
	Store       string
	DatabaseURL string
	SQLitePath  string

	KafkaBrokers       []string
	KafkaTopic         string
	KafkaConsumerGroup string
	KafkaMinBytes      int
	KafkaMaxBytes      int

	ShutdownTimeout time.Duration
}

// StockConsumerEnabled reports whether a Kafka stock-snapshot consumer
// should run. Without brokers, reconciliation is still reachable over HTTP.
func (c Config) StockConsumerEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func Load() (Config, error) {
	var c Config

	c.HTTPAddr = getenv("APP_HTTP_ADDR", ":8081")

	c.Store = strings.ToLower(getenv("CART_STORE", StoreSQLite))
	switch c.Store {
	case StoreSQLite:
		c.SQLitePath = getenv("CART_DB_PATH", "cart.db")
	case StorePostgres:
		c.DatabaseURL = os.Getenv("DATABASE_URL")
		if c.DatabaseURL == "" {
			return Config{}, errors.New("DATABASE_URL is required when CART_STORE=postgres")
		}
	default:
		return Config{}, fmt.Errorf("unknown CART_STORE %q (want sqlite or postgres)", c.Store)
	}

	if brokers := strings.TrimSpace(os.Getenv("KAFKA_BROKERS")); brokers != "" {
		c.KafkaBrokers = splitCSV(brokers)
	}
	c.KafkaTopic = getenv("KAFKA_TOPIC", "stock-snapshots")
	c.KafkaConsumerGroup = getenv("KAFKA_CONSUMER_GROUP", "cart-service")
	c.KafkaMinBytes = getenvInt("KAFKA_MIN_BYTES", 1e3)
	c.KafkaMaxBytes = getenvInt("KAFKA_MAX_BYTES", 10e6)

	c.ShutdownTimeout = getenvDuration("SHUTDOWN_TIMEOUT", 10*time.Second)

	return c, nil
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getenvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
