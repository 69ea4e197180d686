package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timeouts, policy weights, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server   ServerConfig
	DB       DBConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Lock     LockConfig
	Waitlist WaitlistConfig
	Delivery DeliveryConfig
	CORS     CORSConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
}

type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

type KafkaConfig struct {
	Brokers            []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	NotificationsTopic string   `envconfig:"KAFKA_NOTIFICATIONS_TOPIC" default:"customer-notifications"`
}

type LockConfig struct {
	TTL         time.Duration `envconfig:"LOCK_TTL" default:"10s"`
	MaxAttempts int           `envconfig:"LOCK_MAX_ATTEMPTS" default:"5"`
	RetryDelay  time.Duration `envconfig:"LOCK_RETRY_DELAY" default:"200ms"`
}

// WaitlistConfig carries the priority scoring policy. The weights are
// deployment policy, not domain constants: only the relative ordering they
// produce is contractual.
type WaitlistConfig struct {
	BaseScore          float64       `envconfig:"WAITLIST_BASE_SCORE" default:"50"`
	LoyaltyPerBooking  float64       `envconfig:"WAITLIST_LOYALTY_PER_BOOKING" default:"2"`
	LoyaltyCap         float64       `envconfig:"WAITLIST_LOYALTY_CAP" default:"20"`
	QuantityBonus      float64       `envconfig:"WAITLIST_QUANTITY_BONUS" default:"1"`
	QuantityBonusCap   float64       `envconfig:"WAITLIST_QUANTITY_BONUS_CAP" default:"5"`
	DemandBoost        float64       `envconfig:"WAITLIST_DEMAND_BOOST" default:"5"`
	ImminentDays       int           `envconfig:"WAITLIST_IMMINENT_DAYS" default:"3"`
	ImminentBonus      float64       `envconfig:"WAITLIST_IMMINENT_BONUS" default:"15"`
	NearDays           int           `envconfig:"WAITLIST_NEAR_DAYS" default:"7"`
	NearBonus          float64       `envconfig:"WAITLIST_NEAR_BONUS" default:"10"`
	UpcomingDays       int           `envconfig:"WAITLIST_UPCOMING_DAYS" default:"14"`
	UpcomingBonus      float64       `envconfig:"WAITLIST_UPCOMING_BONUS" default:"5"`
	HorizonDays        int           `envconfig:"WAITLIST_HORIZON_DAYS" default:"60"`
	FarFuturePenalty   float64       `envconfig:"WAITLIST_FAR_FUTURE_PENALTY" default:"10"`
	OfferTTL           time.Duration `envconfig:"WAITLIST_OFFER_TTL" default:"24h"`
	EntryTTL           time.Duration `envconfig:"WAITLIST_ENTRY_TTL" default:"336h"`
	Retention          time.Duration `envconfig:"WAITLIST_RETENTION" default:"2160h"`
	MaxSuggestions     int           `envconfig:"WAITLIST_MAX_SUGGESTIONS" default:"3"`
	HighDemandBookings int           `envconfig:"WAITLIST_HIGH_DEMAND_BOOKINGS" default:"20"`
	LowDemandBookings  int           `envconfig:"WAITLIST_LOW_DEMAND_BOOKINGS" default:"3"`
}

type DeliveryConfig struct {
	BufferMinutes int `envconfig:"DELIVERY_BUFFER_MINUTES" default:"60"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	TimeFormat string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
		},
		Lock: LockConfig{
			TTL:         10 * time.Second,
			MaxAttempts: 5,
			RetryDelay:  10 * time.Millisecond,
		},
		Waitlist: WaitlistConfig{
			BaseScore:          50,
			LoyaltyPerBooking:  2,
			LoyaltyCap:         20,
			QuantityBonus:      1,
			QuantityBonusCap:   5,
			DemandBoost:        5,
			ImminentDays:       3,
			ImminentBonus:      15,
			NearDays:           7,
			NearBonus:          10,
			UpcomingDays:       14,
			UpcomingBonus:      5,
			HorizonDays:        60,
			FarFuturePenalty:   10,
			OfferTTL:           24 * time.Hour,
			EntryTTL:           14 * 24 * time.Hour,
			Retention:          90 * 24 * time.Hour,
			MaxSuggestions:     3,
			HighDemandBookings: 20,
			LowDemandBookings:  3,
		},
		Delivery: DeliveryConfig{
			BufferMinutes: 60,
		},
		Log: LogConfig{
			Level:      "error", // Error level only for tests
			TimeFormat: "2006-01-02 15:04:05.000",
		},
	}
}
