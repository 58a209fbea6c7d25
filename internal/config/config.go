package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chxlky/trello-verify-action/integrations"
	"github.com/chxlky/trello-verify-action/internal/verify"
	"github.com/spf13/viper"
)

// Config holds the action inputs plus the settings only the webhook server reads.
type Config struct {
	TrelloAPIKey   string `mapstructure:"trello_api_key"`
	TrelloAPIToken string `mapstructure:"trello_api_token"`
	GithubToken    string `mapstructure:"github_token"`

	CommitVerificationStrategy string `mapstructure:"commit_verification_strategy"`
	TitleVerificationStrategy  string `mapstructure:"title_verification_strategy"`
	NoIDVerificationStrategy   string `mapstructure:"noid_verification_strategy"`

	Trello TrelloConfig `mapstructure:"trello"`
	Github GithubConfig `mapstructure:"github"`
	Server ServerConfig `mapstructure:"server"`

	verification verify.Config
}

type TrelloConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

type GithubConfig struct {
	APIURL string `mapstructure:"api_url"`
}

type ServerConfig struct {
	Port          string `mapstructure:"port"`
	WebhookSecret string `mapstructure:"webhook_secret"`
}

// keys lists every setting so viper binds each one to its environment variable.
var keys = []string{
	"trello_api_key",
	"trello_api_token",
	"github_token",
	"commit_verification_strategy",
	"title_verification_strategy",
	"noid_verification_strategy",
	"trello.base_url",
	"github.api_url",
	"server.port",
	"server.webhook_secret",
}

func setDefaults(v *viper.Viper) {
	d := verify.DefaultConfig()
	v.SetDefault("commit_verification_strategy", string(d.Commit))
	v.SetDefault("title_verification_strategy", string(d.Title))
	v.SetDefault("noid_verification_strategy", string(d.NoID))
	v.SetDefault("trello.base_url", integrations.DefaultTrelloBaseURL)
	v.SetDefault("github.api_url", integrations.DefaultGithubAPIURL)
	v.SetDefault("server.port", "8080")
}

// Load reads configuration from an optional TOML file and from the environment. Inputs follow
// the GitHub Actions convention, so trello_api_key is read from INPUT_TRELLO_API_KEY and
// server.port from INPUT_SERVER_PORT. When path is empty, config.toml in the working
// directory is used if present.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("INPUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.TrelloAPIKey == "" || c.TrelloAPIToken == "" {
		return errors.New("trello_api_key and trello_api_token are required")
	}

	commit, err := verify.ParseCommitStrategy(c.CommitVerificationStrategy)
	if err != nil {
		return err
	}
	title, err := verify.ParseTitleStrategy(c.TitleVerificationStrategy)
	if err != nil {
		return err
	}
	noID, err := verify.ParseNoIDStrategy(c.NoIDVerificationStrategy)
	if err != nil {
		return err
	}
	c.verification = verify.Config{Commit: commit, Title: title, NoID: noID}
	return nil
}

// VerificationConfig returns the parsed strategies.
func (c *Config) VerificationConfig() verify.Config {
	return c.verification
}
