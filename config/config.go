package config

import (
	"github.com/billingstack/namesilo/internal/logger"
	"github.com/billingstack/namesilo/internal/tracing"
)

type AppConfig struct {
	APIPort string `env:"PORT" envDefault:"12333"`
	APIKey  string `env:"API_KEY,required"`
	// RabbitMQ URL for domain lifecycle events; publishing is disabled when empty
	RabbitMQURL string `env:"RABBITMQ_URL"`
	Logger      *logger.Config
	Tracing     *tracing.JaegerConfig
}

type BillingDatabaseConfig struct {
	Host            string `env:"BILLING_POSTGRES_HOST,required"`
	Port            string `env:"BILLING_POSTGRES_PORT,required"`
	User            string `env:"BILLING_POSTGRES_USER,required"`
	DBName          string `env:"BILLING_POSTGRES_DB_NAME,required"`
	Password        string `env:"BILLING_POSTGRES_PASSWORD,required"`
	MaxConn         int    `env:"BILLING_POSTGRES_DB_MAX_CONN" envDefault:"20"`
	MaxIdleConn     int    `env:"BILLING_POSTGRES_DB_MAX_IDLE_CONN" envDefault:"5"`
	ConnMaxLifetime int    `env:"BILLING_POSTGRES_DB_CONN_MAX_LIFETIME" envDefault:"60"`
	LogLevel        string `env:"BILLING_POSTGRES_LOG_LEVEL" envDefault:"WARN"`
	SSLMode         string `env:"BILLING_POSTGRES_SSL_MODE" envDefault:"require"`
}

type NamesiloConfig struct {
	ApiKey     string `env:"NAMESILO_API_KEY"`
	Sandbox    bool   `env:"NAMESILO_SANDBOX" envDefault:"false"`
	Url        string `env:"NAMESILO_URL" envDefault:"https://www.namesilo.com/api/"`
	SandboxUrl string `env:"NAMESILO_SANDBOX_URL" envDefault:"https://sandbox.namesilo.com/api/"`
	// request timeout for every registrar call
	TimeoutSeconds     int    `env:"NAMESILO_TIMEOUT_SECONDS" envDefault:"30"`
	DefaultNameserver1 string `env:"NAMESILO_DEFAULT_NS1" envDefault:"ns1.namesilo.com"`
	DefaultNameserver2 string `env:"NAMESILO_DEFAULT_NS2" envDefault:"ns2.namesilo.com"`
}

// DefaultContactConfig is the registrant contact used when an order carries
// no client and supplies no explicit contact fields.
type DefaultContactConfig struct {
	FirstName string `env:"NAMESILO_DEFAULT_CONTACT_FIRST_NAME"`
	LastName  string `env:"NAMESILO_DEFAULT_CONTACT_LAST_NAME"`
	Address1  string `env:"NAMESILO_DEFAULT_CONTACT_ADDRESS1"`
	City      string `env:"NAMESILO_DEFAULT_CONTACT_CITY"`
	State     string `env:"NAMESILO_DEFAULT_CONTACT_STATE"`
	Postcode  string `env:"NAMESILO_DEFAULT_CONTACT_ZIP"`
	Country   string `env:"NAMESILO_DEFAULT_CONTACT_COUNTRY"`
	Email     string `env:"NAMESILO_DEFAULT_CONTACT_EMAIL"`
	Phone     string `env:"NAMESILO_DEFAULT_CONTACT_PHONE"`
}
