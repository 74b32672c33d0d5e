package common

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	OCR      OCRConfig
	Vision   VisionConfig
	Pipeline PipelineConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	HTTPAddr       string
	UploadDir      string
	MaxUploadBytes int64
}

// DatabaseConfig holds the extraction-job audit store configuration
type DatabaseConfig struct {
	Path string
}

// OCRConfig holds OCR-engine configuration
type OCRConfig struct {
	Pdftotext   string
	Pdftoppm    string
	Tesseract   string
	Languages   []string
	DPI         int
	MaxPages    int
	TessdataDir string
}

// VisionConfig holds the vision/LLM backend configuration
type VisionConfig struct {
	ProjectID       string
	Region          string
	Model           string
	Temperature     float32
	MaxOutputTokens int32
	Timeout         time.Duration
}

// PipelineConfig holds per-request extraction tunables
type PipelineConfig struct {
	BackendTimeout time.Duration
	WorkerLimit    int
	CharBudget     int
	TableRowCap    int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
			UploadDir:      getEnv("UPLOAD_DIR", os.TempDir()),
			MaxUploadBytes: int64(getEnvAsInt("MAX_UPLOAD_MB", 50)) << 20,
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./docfusion.db"),
		},
		OCR: OCRConfig{
			Pdftotext:   getEnv("PDFTOTEXT_BIN", "pdftotext"),
			Pdftoppm:    getEnv("PDFTOPPM_BIN", "pdftoppm"),
			Tesseract:   getEnv("TESSERACT_BIN", "tesseract"),
			Languages:   getEnvAsList("OCR_LANGUAGES", []string{"eng"}),
			DPI:         getEnvAsInt("OCR_DPI", 300),
			MaxPages:    getEnvAsInt("OCR_MAX_PAGES", 0),
			TessdataDir: getEnv("TESSDATA_PREFIX", ""),
		},
		Vision: VisionConfig{
			ProjectID:       getEnv("VERTEX_PROJECT_ID", ""),
			Region:          getEnv("VERTEX_REGION", "us-central1"),
			Model:           getEnv("VERTEX_MODEL", "gemini-1.5-pro"),
			Temperature:     getEnvAsFloat32("VERTEX_TEMPERATURE", 0.1),
			MaxOutputTokens: getEnvAsInt32("VERTEX_MAX_OUTPUT_TOKENS", 4096),
			Timeout:         getEnvAsDuration("VERTEX_TIMEOUT", 120*time.Second),
		},
		Pipeline: PipelineConfig{
			BackendTimeout: getEnvAsDuration("BACKEND_TIMEOUT", 3*time.Minute),
			WorkerLimit:    getEnvAsInt("WORKER_LIMIT", 3),
			CharBudget:     getEnvAsInt("CHAR_BUDGET", 10000),
			TableRowCap:    getEnvAsInt("TABLE_ROW_CAP", 100),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration. A missing Vertex project
// is not an error; the vision adapter just reports itself unavailable.
func (c *Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	if c.Pipeline.WorkerLimit <= 0 {
		return NewAppError("CONFIG_ERROR", "WORKER_LIMIT must be positive", ErrInvalidInput)
	}
	if c.Pipeline.BackendTimeout <= 0 {
		return NewAppError("CONFIG_ERROR", "BACKEND_TIMEOUT must be positive", ErrInvalidInput)
	}
	return nil
}
