// conf/defaults.go default values for settings
package conf

import (
	"github.com/spf13/viper"
)

// Sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("main.name", "habitwheel")

	viper.SetDefault("webserver.enabled", true)
	viper.SetDefault("webserver.host", "0.0.0.0")
	viper.SetDefault("webserver.port", "8080")
	viper.SetDefault("webserver.debug", false)

	viper.SetDefault("output.sqlite.enabled", true)
	viper.SetDefault("output.sqlite.path", "habitwheel.db")

	viper.SetDefault("output.mysql.enabled", false)
	viper.SetDefault("output.mysql.username", "habitwheel")
	viper.SetDefault("output.mysql.password", "secret")
	viper.SetDefault("output.mysql.host", "localhost")
	viper.SetDefault("output.mysql.port", "3306")
	viper.SetDefault("output.mysql.database", "habitwheel")

	viper.SetDefault("tracking.roundlengthweeks", 8)
	viper.SetDefault("tracking.weekstartson", 0)
	viper.SetDefault("tracking.timezone", "America/New_York")
	viper.SetDefault("tracking.weightunit", "LBS")
}
