package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/insighting"
)

type Config struct {
	App                 App                   `mapstructure:",squash"`
	Server              Server                `mapstructure:",squash"`
	Database            Database              `mapstructure:",squash"`
	Auth                Auth                  `mapstructure:",squash"`
	Redis               Redis                 `mapstructure:",squash"`
	Insights            insighting.Thresholds `mapstructure:",squash"`
	Analytics           Analytics             `mapstructure:",squash"`
	PlatformRankingSync PlatformRankingSync   `mapstructure:",squash"`
	Export              Export                `mapstructure:",squash"`
	Import              Import                `mapstructure:",squash"`
}

type Server struct {
	Host           string   `mapstructure:"host"`
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

type Database struct {
	DSN           string `mapstructure:"-"`
	Driver        string `mapstructure:"database_driver"`
	Password      string `mapstructure:"database_password"`
	URL           string `mapstructure:"database_url"`
	User          string `mapstructure:"database_user"`
	MigrateOnBoot bool   `mapstructure:"database_migrate_on_boot"`

	MaxOpenConns    int           `mapstructure:"database_max_open_conns"`
	MaxIdleConns    int           `mapstructure:"database_max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"database_conn_max_lifetime"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Auth struct {
	Secret          string        `mapstructure:"auth_secret"`
	SessionTTL      time.Duration `mapstructure:"auth_session_ttl"`
	AllowOpenSignup bool          `mapstructure:"auth_allow_open_signup"`
}

// Redis guarda as sessões revogadas; endereço vazio usa o armazenamento em memória
type Redis struct {
	Addr     string `mapstructure:"redis_addr"`
	Password string `mapstructure:"redis_password"`
	DB       int    `mapstructure:"redis_db"`
}

type Analytics struct {
	// Status contados como venda concluída
	CompletedStatuses []string `mapstructure:"analytics_completed_statuses"`
	// Meses considerados na série de sazonalidade
	SeasonalityMonths int `mapstructure:"analytics_seasonality_months"`
	// Quantidade máxima de linhas lidas por período
	MaxRows uint64 `mapstructure:"analytics_max_rows"`
}

type PlatformRankingSync struct {
	CronSchedule string `mapstructure:"platform_ranking_cron"`
	SyncEnabled  bool   `mapstructure:"platform_ranking_sync_enabled"`
}

type Export struct {
	WkhtmltopdfPath string `mapstructure:"export_wkhtmltopdf_path"`
	CompanyName     string `mapstructure:"export_company_name"`
}

type Import struct {
	MaxFileSizeMB int `mapstructure:"import_max_file_size_mb"`
	BatchSize     int `mapstructure:"import_batch_size"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/sales?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "")
	viper.SetDefault("DATABASE_MIGRATE_ON_BOOT", true)
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 20)
	viper.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DATABASE_CONN_MAX_LIFETIME", "30m")

	viper.SetDefault("AUTH_SECRET", "")
	viper.SetDefault("AUTH_SESSION_TTL", "24h")
	viper.SetDefault("AUTH_ALLOW_OPEN_SIGNUP", false)

	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)

	th := insighting.DefaultThresholds()
	viper.SetDefault("INSIGHT_GROWTH_POSITIVE", th.GrowthPositive)
	viper.SetDefault("INSIGHT_GROWTH_HIGH_RISK_DROP", th.GrowthHighRiskDrop)
	viper.SetDefault("INSIGHT_PLATFORM_GAP_ACTIONABLE", th.PlatformGapActionable)
	viper.SetDefault("INSIGHT_PLATFORM_GAP_HIGH", th.PlatformGapHigh)
	viper.SetDefault("INSIGHT_CONCENTRATION_NEGATIVE", th.ConcentrationNegative)
	viper.SetDefault("INSIGHT_CONCENTRATION_NEUTRAL", th.ConcentrationNeutral)
	viper.SetDefault("INSIGHT_CONCENTRATION_ACTIONABLE", th.ConcentrationActionable)
	viper.SetDefault("INSIGHT_CONCENTRATION_TOP_N", th.ConcentrationTopN)
	viper.SetDefault("INSIGHT_MARGIN_HEALTHY", th.MarginHealthy)
	viper.SetDefault("INSIGHT_MARGIN_WARNING", th.MarginWarning)
	viper.SetDefault("INSIGHT_SEASONALITY_CV", th.SeasonalityCV)
	viper.SetDefault("INSIGHT_SEASONALITY_MIN_MONTHS", th.SeasonalityMinMonths)

	viper.SetDefault("ANALYTICS_COMPLETED_STATUSES", "Completed")
	viper.SetDefault("ANALYTICS_SEASONALITY_MONTHS", 12)
	viper.SetDefault("ANALYTICS_MAX_ROWS", 200000)

	viper.SetDefault("PLATFORM_RANKING_CRON", "0 6 * * *")   // Todos os dias às 6h da manhã
	viper.SetDefault("PLATFORM_RANKING_SYNC_ENABLED", false) // Habilitar snapshot diário do ranking de plataformas

	viper.SetDefault("EXPORT_WKHTMLTOPDF_PATH", "")
	viper.SetDefault("EXPORT_COMPANY_NAME", "Sales Analytics")

	viper.SetDefault("IMPORT_MAX_FILE_SIZE_MB", 10)
	viper.SetDefault("IMPORT_BATCH_SIZE", 500)

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	if config.Auth.Secret == "" {
		return nil, fmt.Errorf("AUTH_SECRET não configurado")
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado de:", location)
			return
		}
	}

	logrus.Debug("Nenhum arquivo .env encontrado; usando apenas variáveis de ambiente")
}
