package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
)

type ResourceConfig struct {
	ID                  uuid.UUID `json:"id"`
	Name                string    `json:"name"`
	CapacityMW          float64   `json:"capacityMW"`
	CapacityMWh         float64   `json:"capacityMWh"`
	RoundTripEfficiency float64   `json:"roundTripEfficiency"`
	RampUpMWPerMin      float64   `json:"rampUpMWPerMin"`
	RampDownMWPerMin    float64   `json:"rampDownMWPerMin"`
	MinSoc              float64   `json:"minSoc"`
	MaxSoc              float64   `json:"maxSoc"`
	AuxLoadMW           float64   `json:"auxLoadMW"`
}

type ForecastConfig struct {
	Url      string `json:"url"`
	Username string `json:"username"`
	// password is specified via env var
}

type SubmitterConfig struct {
	Url     string `json:"url"`
	QseName string `json:"qseName"`
	// api key is specified via env var
	TestMode     bool `json:"testMode"`
	CutoffHour   int  `json:"cutoffHour"`
	CutoffMinute int  `json:"cutoffMinute"`
}

type SupabaseConfig struct {
	Url string `json:"url"`
	// key is specified via env var
	Schema string `json:"schema"`
}

type DataPlatformConfig struct {
	UploadIntervalSecs int            `json:"uploadIntervalSecs"`
	BufferFile         string         `json:"bufferFile"`
	Supabase           SupabaseConfig `json:"supabase"`
}

type PlannerConfig struct {
	Timezone          string `json:"timezone"`
	HorizonHours      int    `json:"horizonHours"`
	CycleIntervalMins int    `json:"cycleIntervalMins"`
}

type Config struct {
	Resource     ResourceConfig     `json:"resource"`
	Forecast     ForecastConfig     `json:"forecast"`
	Submitter    SubmitterConfig    `json:"submitter"`
	DataPlatform DataPlatformConfig `json:"dataPlatform"`
	Planner      PlannerConfig      `json:"planner"`
}

func Read(path string) (Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var config Config
	err = json.Unmarshal(content, &config)
	if err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	return config, nil
}
