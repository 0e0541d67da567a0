package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/phuslu/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/saaquiz/internal/model"
)

// Version is the released version, overridden at build time with -ldflags
var Version = "v0.1.0"

var (
	cfgFile  string
	verbose  bool
	logLevel string

	// cfg is the effective configuration, loaded before any subcommand runs
	cfg *model.Config

	// flagBindings maps each command's flags to configuration keys. Flags are
	// bound only for the command being run, so commands may share keys.
	flagBindings = map[*cobra.Command]map[string]string{}
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "saaquiz",
	Short: "saaquiz - AWS Solutions Architect Associate study quiz and question generator",
	Long: `saaquiz generates scenario-based multiple-choice questions for the
AWS Certified Solutions Architect Associate exam and lets you practice them.

Questions are generated offline: for every item of the exam taxonomy the most
relevant reference documents are ranked by embedding similarity, fitted into a
bounded prompt, and sent to a chat model. The quiz then serves the generated
list in a browser or in the terminal.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		for flag, key := range flagBindings[cmd] {
			if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
				return fmt.Errorf("bind --%s: %w", flag, err)
			}
		}

		loaded, err := loadConfig()
		if err != nil {
			return err
		}
		cfg = loaded
		setupLogging(cfg.Logging)
		return nil
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number of saaquiz.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("saaquiz %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.saaquiz/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: trace, debug, info, warn, error")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(home + "/.saaquiz")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Register every known key so SAAQUIZ_* variables reach nested settings
	if err := registerDefaults(viper.GetViper(), model.DefaultConfig()); err != nil {
		fmt.Fprintf(os.Stderr, "Error registering defaults: %v\n", err)
	}

	// Read in environment variables that match SAAQUIZ_*, e.g. SAAQUIZ_LLM_MODEL
	viper.SetEnvPrefix("SAAQUIZ")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// registerDefaults flattens defaults into dotted viper keys
func registerDefaults(v *viper.Viper, defaults *model.Config) error {
	data, err := yaml.Marshal(defaults)
	if err != nil {
		return fmt.Errorf("marshal defaults: %w", err)
	}

	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("unmarshal defaults: %w", err)
	}

	var walk func(prefix string, node map[string]any)
	walk = func(prefix string, node map[string]any) {
		for k, val := range node {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			if child, ok := val.(map[string]any); ok {
				walk(key, child)
				continue
			}
			v.SetDefault(key, val)
		}
	}
	walk("", tree)

	// Keys that are never written to YAML
	v.SetDefault("llm.api_key", "")
	v.SetDefault("embedding.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("embedding.base_url", "")
	v.SetDefault("generator.scenarios_path", "")
	v.SetDefault("http.http_proxy", "")
	v.SetDefault("http.https_proxy", "")
	v.SetDefault("http.no_proxy", "")
	return nil
}

// loadConfig resolves the effective configuration: flags, SAAQUIZ_* variables,
// the config file, then defaults. Provider credentials come from the environment.
func loadConfig() (*model.Config, error) {
	c := model.DefaultConfig()
	if err := viper.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}
	if viper.GetBool("verbose") {
		c.Logging.Level = "debug"
	}

	applyCredentials(c, os.Getenv)
	return c, nil
}

// applyCredentials fills API keys and local endpoints from the environment
// when the configuration does not set them.
func applyCredentials(c *model.Config, getenv func(string) string) {
	c.LLM.APIKey, c.LLM.BaseURL = credentialsFor(c.LLM.Provider, c.LLM.APIKey, c.LLM.BaseURL, getenv)
	c.Embedding.APIKey, c.Embedding.BaseURL = credentialsFor(c.Embedding.Provider, c.Embedding.APIKey, c.Embedding.BaseURL, getenv)
}

func credentialsFor(provider, apiKey, baseURL string, getenv func(string) string) (string, string) {
	switch strings.ToLower(provider) {
	case "openai":
		if apiKey == "" {
			apiKey = getenv("OPENAI_API_KEY")
		}
		if apiKey == "" {
			apiKey = getenv("OPEN_AI_KEY")
		}
	case "anthropic", "claude":
		if apiKey == "" {
			apiKey = getenv("ANTHROPIC_API_KEY")
		}
	case "ollama":
		if baseURL == "" {
			baseURL = getenv("OLLAMA_BASE_URL")
		}
	}
	return apiKey, baseURL
}

// setupLogging configures the process-wide logger
func setupLogging(c model.LoggingConfig) {
	log.DefaultLogger = log.Logger{
		Level: log.ParseLevel(c.Level),
		Writer: &log.ConsoleWriter{
			ColorOutput:    c.Color,
			QuoteString:    true,
			EndWithMessage: true,
			Writer:         os.Stderr,
		},
	}
}
