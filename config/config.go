package config

import (
	"flag"
	"os"
	"sync"
	"time"
)

const (
	defaultServerAddress  = ":8080"
	defaultDatabaseDSN    = ""
	defaultLogLevel       = "debug"
	defaultJWTSecret      = "secret"
	defaultLookback       = 24 * time.Hour
	defaultDupWindow      = 2 * time.Minute
	defaultRetentionAdmin = 30 * time.Second
	defaultRetentionUser  = 30 * time.Second
	defaultSweepInterval  = time.Minute
	defaultDeliveryFee    = "50"
)

type Config struct {
	ServerAddr  string
	DatabaseDSN string
	LogLevel    string
	JWTSecret   string
	// Lookback is how far back a reconciliation pass scans for duplicates.
	Lookback time.Duration
	// DupWindow is how close in time two equal submissions must be to count
	// as a retry of the same purchase.
	DupWindow time.Duration
	// RetentionAdmin and RetentionUser control how long delivered orders
	// stay visible in the admin and user list views. They are separate
	// settings on purpose; the integrator may unify them.
	RetentionAdmin time.Duration
	RetentionUser  time.Duration
	// SweepInterval is the background maintenance period, 0 disables it.
	SweepInterval time.Duration
	DeliveryFee   string
}

var (
	once      sync.Once
	singleton *Config
)

// New returns new Config. It parses command line and environment variables only once.
func New() (*Config, error) {
	once.Do(func() {
		cfg := Config{}

		// initialize flags
		flag.StringVar(&cfg.ServerAddr, "a", defaultServerAddress, "server address")
		flag.StringVar(&cfg.DatabaseDSN, "d", defaultDatabaseDSN, "database DSN")
		flag.StringVar(&cfg.LogLevel, "l", defaultLogLevel, "log level")
		flag.StringVar(&cfg.JWTSecret, "s", defaultJWTSecret, "auth token secret")
		flag.DurationVar(&cfg.Lookback, "lookback", defaultLookback, "reconciliation lookback horizon")
		flag.DurationVar(&cfg.DupWindow, "dupwindow", defaultDupWindow, "duplicate submission window")
		flag.DurationVar(&cfg.RetentionAdmin, "retention-admin", defaultRetentionAdmin, "delivered order retention in the admin view")
		flag.DurationVar(&cfg.RetentionUser, "retention-user", defaultRetentionUser, "delivered order retention in the user view")
		flag.DurationVar(&cfg.SweepInterval, "sweep", defaultSweepInterval, "background sweep interval, 0 disables")
		flag.StringVar(&cfg.DeliveryFee, "delivery-fee", defaultDeliveryFee, "fixed delivery surcharge")

		flag.Parse()

		// if environment variable is set, then using it
		if serverAddrEnv := os.Getenv("RUN_ADDRESS"); serverAddrEnv != "" {
			cfg.ServerAddr = serverAddrEnv
		}
		if databaseDSNEnv := os.Getenv("DATABASE_URI"); databaseDSNEnv != "" {
			cfg.DatabaseDSN = databaseDSNEnv
		}
		if logLevelEnv := os.Getenv("LOG_LEVEL"); logLevelEnv != "" {
			cfg.LogLevel = logLevelEnv
		}
		if jwtSecretEnv := os.Getenv("JWT_SECRET"); jwtSecretEnv != "" {
			cfg.JWTSecret = jwtSecretEnv
		}
		if deliveryFeeEnv := os.Getenv("DELIVERY_FEE"); deliveryFeeEnv != "" {
			cfg.DeliveryFee = deliveryFeeEnv
		}
		setDurationEnv(&cfg.Lookback, "RECONCILE_LOOKBACK")
		setDurationEnv(&cfg.DupWindow, "DUPLICATE_WINDOW")
		setDurationEnv(&cfg.RetentionAdmin, "RETENTION_ADMIN")
		setDurationEnv(&cfg.RetentionUser, "RETENTION_USER")
		setDurationEnv(&cfg.SweepInterval, "SWEEP_INTERVAL")

		singleton = &cfg
	})

	return singleton, nil
}

func setDurationEnv(dst *time.Duration, name string) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	if d, err := time.ParseDuration(v); err == nil {
		*dst = d
	}
}
