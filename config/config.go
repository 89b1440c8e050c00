package config

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Config struct {
	API        APIConfig        `toml:"api" mapstructure:"api"`
	Claim      ClaimConfig      `toml:"claim" mapstructure:"claim"`
	Activation ActivationConfig `toml:"activation" mapstructure:"activation"`
	Retry      RetryConfig      `toml:"retry" mapstructure:"retry"`
	Runner     RunnerConfig     `toml:"runner" mapstructure:"runner"`
	Input      InputConfig      `toml:"input" mapstructure:"input"`
	Log        LogConfig        `toml:"log" mapstructure:"log"`
}

// APIConfig describes the remote host and the browser the requests pretend to come from.
type APIConfig struct {
	BaseURL       string        `toml:"base_url" mapstructure:"base_url"`
	Origin        string        `toml:"origin" mapstructure:"origin"`
	Referer       string        `toml:"referer" mapstructure:"referer"`
	UserAgent     string        `toml:"user_agent" mapstructure:"user_agent"`
	ClientProfile string        `toml:"client_profile" mapstructure:"client_profile"`
	Timeout       time.Duration `toml:"timeout" mapstructure:"timeout"`
}

// ClaimConfig holds the constants of the airdrop round signed into every claim.
type ClaimConfig struct {
	DomainName        string        `toml:"domain_name" mapstructure:"domain_name"`
	DomainVersion     string        `toml:"domain_version" mapstructure:"domain_version"`
	VerifyingContract string        `toml:"verifying_contract" mapstructure:"verifying_contract"`
	VerifyingChainID  int64         `toml:"verifying_chain_id" mapstructure:"verifying_chain_id"`
	MerkleRoot        string        `toml:"merkle_root" mapstructure:"merkle_root"`
	TokenRootCount    int64         `toml:"token_root_count" mapstructure:"token_root_count"`
	SignatureValidity time.Duration `toml:"signature_validity" mapstructure:"signature_validity"`
}

type ActivationConfig struct {
	TermsText       string `toml:"terms_text" mapstructure:"terms_text"`
	TermsVersion    string `toml:"terms_version" mapstructure:"terms_version"`
	AccountContract string `toml:"account_contract" mapstructure:"account_contract"`
	CreateSelector  string `toml:"create_selector" mapstructure:"create_selector"`
	AccountName     string `toml:"account_name" mapstructure:"account_name"`
}

type RetryConfig struct {
	Attempts int           `toml:"attempts" mapstructure:"attempts"`
	Backoff  time.Duration `toml:"backoff" mapstructure:"backoff"`
}

type RunnerConfig struct {
	// Threads is how many wallets may be processed at the same time.
	Threads              int        `toml:"threads" mapstructure:"threads"`
	DelayBetweenAccounts DelayRange `toml:"delay_between_accounts" mapstructure:"delay_between_accounts"`
}

type InputConfig struct {
	Path  string `toml:"path" mapstructure:"path"`
	Sheet string `toml:"sheet" mapstructure:"sheet"`
}

type LogConfig struct {
	Level      string `toml:"level" mapstructure:"level"`
	Path       string `toml:"path" mapstructure:"path"`
	MaxSizeMB  int    `toml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int    `toml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days" mapstructure:"max_age_days"`
}

type DelayRange struct {
	Min time.Duration `toml:"min" mapstructure:"min"`
	Max time.Duration `toml:"max" mapstructure:"max"`
}

// Default configuration
var DefaultConfig = Config{
	API: APIConfig{
		BaseURL:       "https://api.reya.xyz",
		Origin:        "https://app.reya.network",
		Referer:       "https://app.reya.network/",
		UserAgent:     "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
		ClientProfile: "chrome_120",
		Timeout:       30 * time.Second,
	},
	Claim: ClaimConfig{
		DomainName:        "Reya",
		DomainVersion:     "1",
		VerifyingContract: "0x14d7c1efc024e118df70b241afbd2447d37f1ed6",
		VerifyingChainID:  1729,
		MerkleRoot:        "0xbc6264e25255e1b3d456ec287615879c2525828345a3d4d4c09eb11baa2d201f",
		TokenRootCount:    0,
		SignatureValidity: 600000 * time.Second,
	},
	Activation: ActivationConfig{
		TermsText:       "Reya Labs Limited Terms and Conditions: https://reya.xyz/files/ReyaLabsLimited_Reya_xyz_T&Cs_04April2024.pdf",
		TermsVersion:    "4",
		AccountContract: "0xa763b6a5e09378434406c003dae6487fbbdc1a80",
		CreateSelector:  "0x9859387b",
		AccountName:     "Margin Account 1",
	},
	Retry: RetryConfig{
		Attempts: 3,
		Backoff:  2 * time.Second,
	},
	Runner: RunnerConfig{
		Threads: 1, // количество потоков
		DelayBetweenAccounts: DelayRange{ // задержка между аккаунтами, 0 - без задержки
			Min: 0,
			Max: 0,
		},
	},
	Input: InputConfig{
		Path: "accounts_data.xlsx",
	},
	Log: LogConfig{
		Level:      "info",
		MaxSizeMB:  50,
		MaxBackups: 3,
		MaxAgeDays: 7,
	},
}

// Load returns DefaultConfig overlaid with the toml file at path and REYA_* env variables.
// An empty path skips the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig)

	v.AutomaticEnv()
	v.SetEnvPrefix("REYA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed on read config %s", path)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.Wrap(err, "failed on unmarshal config")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("api.base_url is required")
	}
	if c.Runner.Threads < 1 {
		return errors.Errorf("runner.threads must be at least 1, got %d", c.Runner.Threads)
	}
	if c.Retry.Attempts < 1 {
		return errors.Errorf("retry.attempts must be at least 1, got %d", c.Retry.Attempts)
	}
	if c.Runner.DelayBetweenAccounts.Max < c.Runner.DelayBetweenAccounts.Min {
		return errors.New("runner.delay_between_accounts.max is lower than min")
	}
	return nil
}

// setDefaults registers every key so env overrides work without a config file.
func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("api.base_url", c.API.BaseURL)
	v.SetDefault("api.origin", c.API.Origin)
	v.SetDefault("api.referer", c.API.Referer)
	v.SetDefault("api.user_agent", c.API.UserAgent)
	v.SetDefault("api.client_profile", c.API.ClientProfile)
	v.SetDefault("api.timeout", c.API.Timeout)

	v.SetDefault("claim.domain_name", c.Claim.DomainName)
	v.SetDefault("claim.domain_version", c.Claim.DomainVersion)
	v.SetDefault("claim.verifying_contract", c.Claim.VerifyingContract)
	v.SetDefault("claim.verifying_chain_id", c.Claim.VerifyingChainID)
	v.SetDefault("claim.merkle_root", c.Claim.MerkleRoot)
	v.SetDefault("claim.token_root_count", c.Claim.TokenRootCount)
	v.SetDefault("claim.signature_validity", c.Claim.SignatureValidity)

	v.SetDefault("activation.terms_text", c.Activation.TermsText)
	v.SetDefault("activation.terms_version", c.Activation.TermsVersion)
	v.SetDefault("activation.account_contract", c.Activation.AccountContract)
	v.SetDefault("activation.create_selector", c.Activation.CreateSelector)
	v.SetDefault("activation.account_name", c.Activation.AccountName)

	v.SetDefault("retry.attempts", c.Retry.Attempts)
	v.SetDefault("retry.backoff", c.Retry.Backoff)

	v.SetDefault("runner.threads", c.Runner.Threads)
	v.SetDefault("runner.delay_between_accounts.min", c.Runner.DelayBetweenAccounts.Min)
	v.SetDefault("runner.delay_between_accounts.max", c.Runner.DelayBetweenAccounts.Max)

	v.SetDefault("input.path", c.Input.Path)
	v.SetDefault("input.sheet", c.Input.Sheet)

	v.SetDefault("log.level", c.Log.Level)
	v.SetDefault("log.path", c.Log.Path)
	v.SetDefault("log.max_size_mb", c.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", c.Log.MaxBackups)
	v.SetDefault("log.max_age_days", c.Log.MaxAgeDays)
}

func (r DelayRange) GetRandomDelay() time.Duration {
	delta := r.Max - r.Min
	if delta <= 0 {
		return r.Min
	}

	randomDuration := time.Duration(rand.Int63n(int64(delta)))
	return r.Min + randomDuration
}

// Sleep waits a random delay from the range or until ctx is done.
func (r DelayRange) Sleep(ctx context.Context) error {
	d := r.GetRandomDelay()
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
