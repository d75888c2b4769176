package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/pressflag/internal/logging"
	"github.com/ppiankov/pressflag/internal/model"
	"github.com/ppiankov/pressflag/internal/pipeline"
	"github.com/ppiankov/pressflag/internal/rules"
)

// Version is set at build time
var Version = "0.1.0"

var (
	cfgFile   string
	rulesFile string
	verbose   bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "pressflag",
	Short: "Pressflag - flag underperforming extrusion dies from press production sheets",
	Long: `Pressflag reads a press production workbook, classifies every die by
profile family and checks its production rate, recovery and speed against
the thresholds of the press that ran it.

Dies that miss a threshold, or that cannot be checked at all, are written
to a flagged dies report together with the department responsible for
the operator's remark.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pressflag v%s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.pressflag/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&rulesFile, "rules", "", "rule store YAML (default: built-in rules)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	bindGlobalFlags()

	rootCmd.AddCommand(versionCmd)
}

// bindGlobalFlags binds the persistent flags to viper keys
func bindGlobalFlags() {
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("rules.file", rootCmd.PersistentFlags().Lookup("rules"))
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if err := registerDefaults(model.DefaultConfig()); err != nil {
		fmt.Fprintf(os.Stderr, "Error registering defaults: %v\n", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(filepath.Join(home, ".pressflag"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// PRESSFLAG_CACHE_ENABLED overrides cache.enabled, and so on
	viper.SetEnvPrefix("PRESSFLAG")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// registerDefaults makes every config key known to viper, so environment
// variables apply even when no config file sets the key
func registerDefaults(cfg *model.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	var tree map[string]interface{}
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return err
	}
	setDefaults("", tree)
	return nil
}

func setDefaults(prefix string, tree map[string]interface{}) {
	for key, value := range tree {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		if sub, ok := value.(map[string]interface{}); ok {
			setDefaults(full, sub)
			continue
		}
		viper.SetDefault(full, value)
	}
}

// loadConfig merges defaults, config file, environment and flags
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	if viper.GetBool("verbose") {
		cfg.Output.Verbose = true
	}
	return cfg, nil
}

func newLogger(cfg *model.Config) (*zap.Logger, error) {
	logger, err := logging.New(cfg.Log.Level, cfg.Output.Verbose)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return logger, nil
}

// newPipeline loads the rule store named by the config and builds a pipeline
func newPipeline(cfg *model.Config, logger *zap.Logger) (*pipeline.Pipeline, error) {
	store, err := rules.LoadStore(cfg.Rules.File)
	if err != nil {
		return nil, err
	}
	if cfg.Rules.File != "" {
		logger.Debug("loaded rule store", zap.String("file", cfg.Rules.File))
	}
	return pipeline.NewPipeline(cfg, store, logger)
}
