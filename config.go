package memregion

import (
	"github.com/caarlos0/env/v11"
)

type Config struct {
	// ProcMountPoint is where procfs is mounted. Only the table scan
	// discovery strategy reads it. NewContext treats an empty value as /proc.
	ProcMountPoint string `env:"MEMREGION_PROC_MOUNT"     envDefault:"/proc"`

	// PerPageQuery makes discovery ask the OS about one page at a time
	// instead of consuming whole spans.
	PerPageQuery bool `env:"MEMREGION_PER_PAGE_QUERY"`
}

func DefaultConfig() Config {
	return Config{ProcMountPoint: "/proc"}
}

// ParseConfig reads the configuration from the environment.
func ParseConfig() (Config, error) {
	return env.ParseAs[Config]()
}
