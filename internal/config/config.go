package config

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// MinPoolTxUSDKey is the minimum pool transaction threshold in whole USD; amounts below it are rejected by pools
	MinPoolTxUSDKey = "MIN_POOL_TX_USD"
	// FeeDebounceIntervalKey is the settle interval for collapsing rapid fee re-quote requests into one
	FeeDebounceIntervalKey = "FEE_DEBOUNCE_INTERVAL"
	// FeeRatePerSecondKey caps outgoing fee quote requests per second
	FeeRatePerSecondKey = "FEE_RATE_PER_SECOND"
	// PoolPollIntervalKey is the cadence for refreshing pool reserve snapshots
	PoolPollIntervalKey = "POOL_POLL_INTERVAL"
	// PoolRatePerSecondKey caps outgoing pool snapshot requests per second
	PoolRatePerSecondKey = "POOL_RATE_PER_SECOND"
)

var vip *viper.Viper

func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("ASGARDEX")
	vip.AutomaticEnv()

	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(MinPoolTxUSDKey, 50)
	vip.SetDefault(FeeDebounceIntervalKey, 300*time.Millisecond)
	vip.SetDefault(FeeRatePerSecondKey, 5)
	vip.SetDefault(PoolPollIntervalKey, 30*time.Second)
	vip.SetDefault(PoolRatePerSecondKey, 10)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	log.SetLevel(log.Level(GetInt(LogLevelKey)))

	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetDuration(key string) time.Duration {
	return vip.GetDuration(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

func validate() error {
	if GetDuration(FeeDebounceIntervalKey) <= 0 {
		return fmt.Errorf("%s must be a positive duration", FeeDebounceIntervalKey)
	}
	if GetDuration(PoolPollIntervalKey) <= 0 {
		return fmt.Errorf("%s must be a positive duration", PoolPollIntervalKey)
	}
	if GetInt(FeeRatePerSecondKey) <= 0 {
		return fmt.Errorf("%s must be a positive integer", FeeRatePerSecondKey)
	}
	if GetInt(PoolRatePerSecondKey) <= 0 {
		return fmt.Errorf("%s must be a positive integer", PoolRatePerSecondKey)
	}
	if GetInt(MinPoolTxUSDKey) < 0 {
		return fmt.Errorf("%s must not be negative", MinPoolTxUSDKey)
	}
	return nil
}
