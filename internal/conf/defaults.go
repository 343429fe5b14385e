// defaults.go default values for settings
package conf

import (
	"github.com/spf13/viper"
)

// Sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("main.name", "SnakeID-Go")
	viper.SetDefault("main.log.enabled", true)
	viper.SetDefault("main.log.path", "snakeid.log")
	viper.SetDefault("main.log.maxsize", 10)
	viper.SetDefault("main.log.maxbackups", 3)
	viper.SetDefault("main.log.maxage", 30)

	viper.SetDefault("snakenet.extractormodelpath", "models/extractor.tflite")
	viper.SetDefault("snakenet.reducermodelpath", "models/reducer.tflite")
	viper.SetDefault("snakenet.classifiermodelpath", "models/classifier.tflite")
	viper.SetDefault("snakenet.classlabels", []string{"0", "1", "2", "3", "4"})
	viper.SetDefault("snakenet.imagesize", 224)
	viper.SetDefault("snakenet.threads", 0)
	viper.SetDefault("snakenet.usexnnpack", true)
	viper.SetDefault("snakenet.debug", false)

	viper.SetDefault("output.sqlite.enabled", true)
	viper.SetDefault("output.sqlite.path", "snakeid.db")

	viper.SetDefault("output.mysql.enabled", false)
	viper.SetDefault("output.mysql.username", "snakeid")
	viper.SetDefault("output.mysql.password", "")
	viper.SetDefault("output.mysql.host", "localhost")
	viper.SetDefault("output.mysql.port", "3306")
	viper.SetDefault("output.mysql.database", "snake_research")

	viper.SetDefault("sentry.enabled", false)
	viper.SetDefault("sentry.dsn", "")

	viper.SetDefault("metrics.enabled", false)
	viper.SetDefault("metrics.listen", "0.0.0.0:8090")
}
