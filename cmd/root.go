package cmd

import (
	"errors"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "matchflow"
)

type Config struct {
	ProjectID       string          `mapstructure:"project-id"`
	CredentialsFile string          `mapstructure:"credentials-file"`
	Schedule        string          `mapstructure:"schedule"`
	Pipeline        *PipelineConfig `mapstructure:"pipeline"`
	AI              *AIConfig       `mapstructure:"ai"`
}

type PipelineConfig struct {
	DrainLimit      int     `mapstructure:"drain-limit"`
	ChunkSize       int     `mapstructure:"chunk-size"`
	MinScore        float64 `mapstructure:"min-score"`
	MaxSuggestions  int     `mapstructure:"max-suggestions"`
	MaxReasonLength int     `mapstructure:"max-reason-length"`
	MatchTTLDays    int     `mapstructure:"match-ttl-days"`
}

type AIConfig struct {
	Gemini *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile              string  `mapstructure:"api-key-file"`
	Model                   string  `mapstructure:"model"`
	FallbackModel           string  `mapstructure:"fallback-model"`
	MaxOutputTokens         int32   `mapstructure:"max-output-tokens"`
	FallbackMaxOutputTokens int32   `mapstructure:"fallback-max-output-tokens"`
	Temperature             float32 `mapstructure:"temperature"`
	TopP                    float32 `mapstructure:"top-p"`
	TopK                    float32 `mapstructure:"top-k"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "matchflow pairs marketplace seekers with open projects through scheduled model-scored matching runs",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// A .env next to the binary is convenient in development; ignore its
	// absence everywhere else.
	_ = godotenv.Load()

	if err := viper.BindEnv("project-id", "FIRESTORE_PROJECT_ID"); err != nil {
		log.Fatalf("binding FIRESTORE_PROJECT_ID environment variable: %v", err)
	}
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is matchflow.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// A missing default config is fine (env-only setups); an explicit or
	// unparsable one is not.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config == nil {
		config = &Config{}
	}
	if config.Schedule == "" {
		config.Schedule = "0 3 * * *"
	}
	return config, nil
}
