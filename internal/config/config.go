package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
)

type Config struct {
	App            App            `yaml:"app"`
	Http           Http           `yaml:"http"`
	Sheet          Sheet          `yaml:"sheet"`
	Fleet          Fleet          `yaml:"fleet"`
	Import         Import         `yaml:"import"`
	Clients        Clients        `yaml:"clients"`
	Infrastructure Infrastructure `yaml:"infrastructure"`
}

type App struct {
	Name     string `yaml:"name" env:"APP_NAME" env-default:"meal-routes"`
	LogLevel string `yaml:"log_level" env:"APP_LOG_LEVEL" env-default:"info"`
}

type Http struct {
	Addr          string `yaml:"addr" env:"HTTP_ADDR" env-default:":8080"`
	MaxUploadSize int    `yaml:"max_upload_size" env:"HTTP_MAX_UPLOAD_SIZE" env-default:"10485760"`
	// Swagger serves the API docs under /swagger.
	Swagger bool `yaml:"swagger" env:"HTTP_SWAGGER" env-default:"true"`
}

// Sheet describes the beneficiary spreadsheet layout. Column names are the
// targets handed to the column matcher, not exact header strings.
type Sheet struct {
	NameColumn      string   `yaml:"name_column" env:"SHEET_NAME_COLUMN" env-default:"beneficiary name"`
	AddressColumn   string   `yaml:"address_column" env:"SHEET_ADDRESS_COLUMN" env-default:"address"`
	LatitudeColumn  string   `yaml:"latitude_column" env:"SHEET_LATITUDE_COLUMN" env-default:"lattitude"`
	LongitudeColumn string   `yaml:"longitude_column" env:"SHEET_LONGITUDE_COLUMN" env-default:"longitude"`
	MealColumns     []string `yaml:"meal_columns" env:"SHEET_MEAL_COLUMNS" env-separator:"," env-default:"standard meals,vegetarian meals"`
	Threshold       float64  `yaml:"threshold" env:"SHEET_MATCH_THRESHOLD" env-default:"0.9"`
	// 0 keeps the matcher default of max(len(target), 3).
	ShingleSize   int  `yaml:"shingle_size" env:"SHEET_SHINGLE_SIZE" env-default:"0"`
	AISuggestions bool `yaml:"ai_suggestions" env:"SHEET_AI_SUGGESTIONS" env-default:"false"`
}

type Fleet struct {
	Vehicles int    `yaml:"vehicles" env:"FLEET_VEHICLES" env-default:"2"`
	Profile  string `yaml:"profile" env:"FLEET_PROFILE" env-default:"driving-car"`
	// One capacity per meal column, same order as Sheet.MealColumns.
	Capacity       []int   `yaml:"capacity" env:"FLEET_CAPACITY" env-separator:"," env-default:"40,40"`
	ServiceSeconds int     `yaml:"service_seconds" env:"FLEET_SERVICE_SECONDS" env-default:"300"`
	DepotLat       float64 `yaml:"depot_lat" env:"FLEET_DEPOT_LAT" env-default:"0"`
	DepotLng       float64 `yaml:"depot_lng" env:"FLEET_DEPOT_LNG" env-default:"0"`
}

type Import struct {
	Path   string `yaml:"path" env:"IMPORT_PATH"`
	OutDir string `yaml:"out_dir" env:"IMPORT_OUT_DIR" env-default:"./dest"`
}

type Clients struct {
	GooglePlaces GooglePlaces `yaml:"google_places"`
	Nominatim    Nominatim    `yaml:"nominatim"`
	OpenRoute    OpenRoute    `yaml:"openroute"`
	OpenAI       OpenAI       `yaml:"openai"`
}

type GooglePlaces struct {
	Url     string        `yaml:"url" env:"GOOGLE_PLACES_URL" env-default:"https://maps.googleapis.com/maps/api/place/findplacefromtext/json"`
	ApiKey  string        `yaml:"api_key" env:"GOOGLE_PLACES_API_KEY"`
	Timeout time.Duration `yaml:"timeout" env:"GOOGLE_PLACES_TIMEOUT" env-default:"10s"`
}

type Nominatim struct {
	Enabled   bool          `yaml:"enabled" env:"NOMINATIM_ENABLED" env-default:"true"`
	Url       string        `yaml:"url" env:"NOMINATIM_URL" env-default:"https://nominatim.openstreetmap.org/search"`
	UserAgent string        `yaml:"user_agent" env:"NOMINATIM_USER_AGENT" env-default:"meal-routes/1.0"`
	Timeout   time.Duration `yaml:"timeout" env:"NOMINATIM_TIMEOUT" env-default:"10s"`
}

type OpenRoute struct {
	Url     string        `yaml:"url" env:"OPENROUTE_URL" env-default:"https://api.openrouteservice.org/optimization"`
	ApiKey  string        `yaml:"api_key" env:"OPENROUTE_API_KEY"`
	Timeout time.Duration `yaml:"timeout" env:"OPENROUTE_TIMEOUT" env-default:"60s"`
}

type OpenAI struct {
	ApiKey string `yaml:"api_key" env:"OPENAI_API_KEY"`
}

type Infrastructure struct {
	Db     Db     `yaml:"db"`
	Redis  Redis  `yaml:"redis"`
	Rabbit Rabbit `yaml:"rabbit"`
}

type Db struct {
	Dsn     string `yaml:"dsn" env:"DB_DSN"`
	Migrate bool   `yaml:"migrate" env:"DB_MIGRATE" env-default:"true"`
}

type Redis struct {
	Addr     string        `yaml:"addr" env:"REDIS_ADDR"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	Db       int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	TTL      time.Duration `yaml:"ttl" env:"REDIS_GEOCODE_TTL" env-default:"720h"`
}

type Rabbit struct {
	Url      string `yaml:"url" env:"RABBIT_URL"`
	Exchange string `yaml:"exchange" env:"RABBIT_EXCHANGE" env-default:"meal-routes.events"`
}

// Load reads an optional .env file, then CONFIG_PATH (yaml) when set,
// then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, eris.Wrapf(err, "read config %s", path)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, eris.Wrap(err, "read env config")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func (c *Config) validate() error {
	if c.Sheet.Threshold < 0 || c.Sheet.Threshold > 1 {
		return eris.Errorf("sheet match threshold must be within [0,1], got %v", c.Sheet.Threshold)
	}
	if strings.TrimSpace(c.Sheet.NameColumn) == "" || strings.TrimSpace(c.Sheet.AddressColumn) == "" {
		return eris.New("sheet name and address columns are required")
	}
	if len(c.Fleet.Capacity) != len(c.Sheet.MealColumns) {
		return eris.Errorf("fleet capacity has %d values, expected one per meal column (%d)",
			len(c.Fleet.Capacity), len(c.Sheet.MealColumns))
	}
	return nil
}

func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
