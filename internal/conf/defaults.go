// conf/defaults.go default values for settings
package conf

import (
	"github.com/spf13/viper"
)

// Monitored area defaults: Kanchanaburi province, Thailand. Thai names are
// used as-is in alert messages and upstream district queries.
const (
	DefaultProvince = "กาญจนบุรี"
	DefaultTimezone = "Asia/Bangkok"
)

// DefaultSensors is the FIRMS sensor merge order. The order matters: when
// two sensors report the same hotspot, the record from the earlier sensor
// in this list wins deduplication.
var DefaultSensors = []string{"VIIRS_SNPP_NRT", "VIIRS_NOAA20_NRT", "MODIS_NRT"}

// DefaultDistricts are the monitored districts within the province:
// Mueang Kanchanaburi, Sai Yok and Si Sawat.
var DefaultDistricts = []string{"เมืองกาญจนบุรี", "ไทรโยค", "ศรีสวัสดิ์"}

// Sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("main.name", "Firewatch-Go")
	viper.SetDefault("main.log.enabled", true)
	viper.SetDefault("main.log.path", "logs/firewatch.log")

	viper.SetDefault("monitor.interval", 5)
	viper.SetDefault("monitor.listen", ":8090")
	viper.SetDefault("monitor.log.enabled", true)
	viper.SetDefault("monitor.log.path", "logs/monitor.log")

	viper.SetDefault("feed.provider", "firms")
	// Lookback must span the night pass, which falls on the previous UTC
	// calendar day; local-date filtering drops the excess.
	viper.SetDefault("feed.lookbackdays", 3)
	viper.SetDefault("feed.timeout", 30)
	viper.SetDefault("feed.firms.apikey", "")
	viper.SetDefault("feed.firms.endpoint", "https://firms.modaps.eosdis.nasa.gov/api/area/csv")
	viper.SetDefault("feed.firms.sensors", DefaultSensors)
	viper.SetDefault("feed.gistda.apikey", "")
	viper.SetDefault("feed.gistda.endpoint", "https://api.sphere.gistda.or.th/services/info/disaster-hotspot")

	viper.SetDefault("region.province", DefaultProvince)
	viper.SetDefault("region.districts", DefaultDistricts)

	viper.SetDefault("pass.timezone", DefaultTimezone)
	viper.SetDefault("pass.night.start", 1)
	viper.SetDefault("pass.night.end", 3)
	viper.SetDefault("pass.afternoon.start", 13)
	viper.SetDefault("pass.afternoon.end", 16)
	viper.SetDefault("pass.enforce", true)

	viper.SetDefault("store.type", "memory")
	viper.SetDefault("store.path", "firewatch.db")

	viper.SetDefault("notify.enabled", false)
	viper.SetDefault("notify.urls", []string{})
	viper.SetDefault("notify.timeout", 15)
	viper.SetDefault("notify.onempty", false)
	viper.SetDefault("notify.maxcoordinatelines", 10)
	viper.SetDefault("notify.coldstart", false)
}
