package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// StoreConfig carries the store profile used to seed and back-fill the
// settings table.
type StoreConfig struct {
	CompanyName    string `mapstructure:"companyName"`
	CompanyAddress string `mapstructure:"companyAddress"`
	Currency       string `mapstructure:"currency"`
	TaxRate        string `mapstructure:"taxRate"`
}

func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		CompanyName:    "My Company",
		CompanyAddress: "",
		Currency:       "Rs",
		TaxRate:        "5",
	}
}

// Settings flattens the store profile into setting keys.
func (c StoreConfig) Settings() map[string]string {
	return map[string]string{
		"company_name":    c.CompanyName,
		"company_address": c.CompanyAddress,
		"currency":        c.Currency,
		"tax_rate":        c.TaxRate,
	}
}

type StoreConfigHolder struct {
	current atomic.Value // holds StoreConfig
}

// NewStaticStoreConfigHolder wraps a fixed profile without file watching.
func NewStaticStoreConfigHolder(cfg StoreConfig) *StoreConfigHolder {
	holder := &StoreConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func NewStoreConfigHolder() (*StoreConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("store")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/retailbook")
	v.AddConfigPath(".")

	v.SetEnvPrefix("RETAILBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultStoreConfig()
	v.SetDefault("store.companyName", defaults.CompanyName)
	v.SetDefault("store.companyAddress", defaults.CompanyAddress)
	v.SetDefault("store.currency", defaults.Currency)
	v.SetDefault("store.taxRate", defaults.TaxRate)

	fileLoaded := true
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		fileLoaded = false
	}

	var cfg StoreConfig
	if err := v.UnmarshalKey("store", &cfg); err != nil {
		return nil, err
	}
	if err := validateStoreConfig(cfg); err != nil {
		return nil, err
	}

	holder := NewStaticStoreConfigHolder(cfg)
	if !fileLoaded {
		return holder, nil
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated StoreConfig
		if err := v.UnmarshalKey("store", &updated); err != nil {
			log.Printf("[store-config] reload failed: %v", err)
			return
		}
		if err := validateStoreConfig(updated); err != nil {
			log.Printf("[store-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[store-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *StoreConfigHolder) Get() StoreConfig {
	return h.current.Load().(StoreConfig)
}

func validateStoreConfig(cfg StoreConfig) error {
	if strings.TrimSpace(cfg.Currency) == "" {
		return errors.New("store.currency cannot be empty")
	}
	if strings.TrimSpace(cfg.TaxRate) == "" {
		return errors.New("store.taxRate cannot be empty")
	}
	return nil
}
