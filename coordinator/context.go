package coordinator

import (
	"os"
	"time"

	json "github.com/goccy/go-json"

	"bank2pc/configs"
)

// Config is the coordinator's static, read-only-after-start configuration:
// the ordered participant endpoint list and the per-RPC deadline. Duplicate
// endpoints are allowed; each is dialed and voted independently.
type Config struct {
	CoordinatorID string        `json:"coordinator_id"`
	Participants  []string      `json:"participants"`
	Deadline      time.Duration `json:"-"`
	DeadlineMS    int           `json:"deadline_ms"`
}

// LoadConfig reads a JSON config file at path. DeadlineMS of zero falls
// back to configs.DefaultPrepareDeadline.
func LoadConfig(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return Config{}, err
	}
	if cfg.DeadlineMS > 0 {
		cfg.Deadline = time.Duration(cfg.DeadlineMS) * time.Millisecond
	} else {
		cfg.Deadline = configs.DefaultPrepareDeadline
	}
	return cfg, nil
}
