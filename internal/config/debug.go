package config

import "os"

func IsDebug() bool {
	return os.Getenv("CTXRUN_DEBUG") == "1"
}
