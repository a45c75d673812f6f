package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/bryanwahyu/laporkerja/internal/domain/reports"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
		// AllowedOrigins CORS, kosong = "*"
		AllowedOrigins []string `yaml:"allowedOrigins"`
		// SubmitRate request submit per menit per IP
		SubmitRate int `yaml:"submitRate"`
	} `yaml:"server"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	State struct {
		// Path file sqlite, kosong = in-memory
		Path         string `yaml:"path"`
		HistoryLimit int    `yaml:"historyLimit"`
	} `yaml:"state"`

	Oracle struct {
		Provider string `yaml:"provider"` // gemini | openai
		APIKey   string `yaml:"apiKey"`
		Model    string `yaml:"model"`
		BaseURL  string `yaml:"baseUrl"`
	} `yaml:"oracle"`

	Storage struct {
		Provider string `yaml:"provider"` // "" | minio | azure
		Minio    struct {
			Endpoint   string `yaml:"endpoint"`
			AccessKey  string `yaml:"accessKey"`
			SecretKey  string `yaml:"secretKey"`
			BucketName string `yaml:"bucketName"`
			Region     string `yaml:"region"`
			UseSSL     bool   `yaml:"useSSL"`
			PublicURL  string `yaml:"publicUrl"`
		} `yaml:"minio"`
		Azure struct {
			ConnectionString string `yaml:"connectionString"`
			Container        string `yaml:"container"`
			PublicURL        string `yaml:"publicUrl"`
		} `yaml:"azure"`
		UploadTimeout time.Duration `yaml:"uploadTimeout"`
	} `yaml:"storage"`

	Records struct {
		Driver   string `yaml:"driver"` // "" | mysql | postgres
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslMode"`
	} `yaml:"records"`

	Events struct {
		NatsURL string `yaml:"natsUrl"`
		Subject string `yaml:"subject"`
	} `yaml:"events"`

	Platform struct {
		Clipboard    bool   `yaml:"clipboard"`
		OpenExternal bool   `yaml:"openExternal"`
		ShareDir     string `yaml:"shareDir"`
		Geolocation  struct {
			URL     string        `yaml:"url"`
			Lat     *float64      `yaml:"lat"`
			Lon     *float64      `yaml:"lon"`
			Timeout time.Duration `yaml:"timeout"`
		} `yaml:"geolocation"`
	} `yaml:"platform"`

	Export struct {
		Disabled bool `yaml:"disabled"`
	} `yaml:"export"`
}

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	StorageMinio = "minio"
	StorageAzure = "azure"

	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Load baca .env (kalau ada) lalu file config.yaml, lalu Finalize
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// LoadOrDefault seperti Load, tapi file yang tidak ada berarti pakai default
// (mode CLI tanpa config.yaml)
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Parse(nil)
	}
	return cfg, err
}

// Parse decode YAML + Finalize, dipisah supaya bisa dites tanpa file
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Finalize default -> env override -> validasi
func (c *Config) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

func (c *Config) loadDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.SubmitRate == 0 {
		c.Server.SubmitRate = 30
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.State.HistoryLimit <= 0 {
		c.State.HistoryLimit = reports.DefaultHistoryLimit
	}
	if c.Oracle.Provider == "" {
		c.Oracle.Provider = ProviderGemini
	}
	if c.Oracle.Model == "" {
		switch c.Oracle.Provider {
		case ProviderOpenAI:
			c.Oracle.Model = "gpt-4o-mini"
		default:
			c.Oracle.Model = "gemini-2.5-flash"
		}
	}
	if c.Storage.UploadTimeout == 0 {
		c.Storage.UploadTimeout = 60 * time.Second
	}
	if c.Storage.Azure.Container == "" {
		c.Storage.Azure.Container = "work-images"
	}
	if c.Storage.Minio.BucketName == "" {
		c.Storage.Minio.BucketName = "work-images"
	}
	if c.Records.Port == 0 {
		switch c.Records.Driver {
		case DriverMySQL:
			c.Records.Port = 3306
		case DriverPostgres:
			c.Records.Port = 5432
		}
	}
	if c.Records.SSLMode == "" {
		c.Records.SSLMode = "disable"
	}
	if c.Events.Subject == "" {
		c.Events.Subject = "laporkerja.report.finalized"
	}
	if c.Platform.Geolocation.Timeout == 0 {
		c.Platform.Geolocation.Timeout = 10 * time.Second
	}
}

func (c *Config) loadEnv() {
	setString(&c.Oracle.APIKey, "ORACLE_API_KEY")
	setString(&c.Oracle.Provider, "ORACLE_PROVIDER")
	setString(&c.Storage.Minio.AccessKey, "MINIO_ACCESS_KEY")
	setString(&c.Storage.Minio.SecretKey, "MINIO_SECRET_KEY")
	setString(&c.Storage.Azure.ConnectionString, "AZURE_STORAGE_CONNECTION_STRING")
	setString(&c.Records.Password, "RECORDS_PASSWORD")
	setString(&c.Events.NatsURL, "NATS_URL")
	setString(&c.State.Path, "STATE_PATH")
	setString(&c.Log.Level, "LOG_LEVEL")
	if v := os.Getenv("PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Server.Port = n
		}
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func (c *Config) validate() error {
	var errs []error
	switch c.Oracle.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		errs = append(errs, fmt.Errorf("oracle.provider %q tidak dikenal", c.Oracle.Provider))
	}
	switch c.Storage.Provider {
	case "":
	case StorageMinio:
		if c.Storage.Minio.Endpoint == "" {
			errs = append(errs, errors.New("storage.minio.endpoint wajib diisi"))
		}
	case StorageAzure:
		if c.Storage.Azure.ConnectionString == "" {
			errs = append(errs, errors.New("storage.azure.connectionString wajib diisi"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.provider %q tidak dikenal", c.Storage.Provider))
	}
	switch c.Records.Driver {
	case "":
	case DriverMySQL, DriverPostgres:
		if c.Records.Host == "" || c.Records.Name == "" {
			errs = append(errs, errors.New("records.host dan records.name wajib diisi"))
		}
	default:
		errs = append(errs, fmt.Errorf("records.driver %q tidak dikenal", c.Records.Driver))
	}
	geo := c.Platform.Geolocation
	if (geo.Lat == nil) != (geo.Lon == nil) {
		errs = append(errs, errors.New("platform.geolocation lat dan lon harus diisi berpasangan"))
	}
	return errors.Join(errs...)
}

// Helper untuk build DSN MySQL
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Records.User,
		c.Records.Password,
		c.Records.Host,
		c.Records.Port,
		c.Records.Name,
	)
}

// PostgresDSN format key=value untuk lib/pq
func (c *Config) PostgresDSN() string {
	parts := []string{
		"host=" + c.Records.Host,
		"port=" + strconv.Itoa(c.Records.Port),
		"user=" + c.Records.User,
		"dbname=" + c.Records.Name,
		"sslmode=" + c.Records.SSLMode,
	}
	if c.Records.Password != "" {
		parts = append(parts, "password="+c.Records.Password)
	}
	return strings.Join(parts, " ")
}
