package probe

import (
	_ "embed"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/apportable/openal-soft/internal/applog"
)

//go:embed tuning.yaml
var defaultTuningYAML []byte

// searchLocations mirrors deviceid.go's tocalls.yaml search order: a few
// working-directory-relative candidates followed by the conventional
// install prefixes, checked in order before falling back to the embedded
// default.
var searchLocations = []string{
	"tuning.yaml",
	"data/tuning.yaml",
	"../data/tuning.yaml",
	"/usr/local/share/openal-soft/tuning.yaml",
	"/usr/share/openal-soft/tuning.yaml",
}

// Tuning is the resolved set of ring parameters for one probe.
type Tuning struct {
	RingDepth   int
	Preroll     int
	BufferBytes int
}

type tuningConfig struct {
	APIThreshold           int      `yaml:"apiThreshold"`
	PrerollHigh            int      `yaml:"prerollHigh"`
	PrerollLow             int      `yaml:"prerollLow"`
	RingDepthHigh          int      `yaml:"ringDepthHigh"`
	RingDepthLow           int      `yaml:"ringDepthLow"`
	BufferBytesDefault     int      `yaml:"bufferBytesDefault"`
	LowSampleRateThreshold int      `yaml:"lowSampleRateThreshold"`
	LowLatencyBufferBytes  int      `yaml:"lowLatencyBufferBytes"`
	LowLatencyModels       []string `yaml:"lowLatencyModels"`
}

func loadTuningConfig() tuningConfig {
	var data []byte

	for _, loc := range searchLocations {
		fp, err := os.Open(loc)
		if err != nil {
			continue
		}
		d, readErr := io.ReadAll(fp)
		fp.Close()
		if readErr == nil {
			data = d
			break
		}
		applog.L().Warn("error reading tuning file", "path", loc, "err", readErr)
	}

	if data == nil {
		data = defaultTuningYAML
	}

	var cfg tuningConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		applog.L().Warn("error parsing tuning config, falling back to embedded default", "err", err)
		if err := yaml.Unmarshal(defaultTuningYAML, &cfg); err != nil {
			panic("embedded tuning.yaml is invalid: " + err.Error())
		}
	}
	return cfg
}

// resolve computes RingDepth/Preroll/BufferBytes from the OS version,
// device model, and requested sample rate.
func (c tuningConfig) resolve(osVersion int, deviceModel string, sampleRate int) Tuning {
	t := Tuning{BufferBytes: c.BufferBytesDefault}

	if osVersion >= c.APIThreshold {
		t.RingDepth = c.RingDepthHigh
		t.Preroll = c.PrerollHigh
	} else {
		t.RingDepth = c.RingDepthLow
		t.Preroll = c.PrerollLow
	}

	if sampleRate > 0 && sampleRate <= c.LowSampleRateThreshold {
		t.BufferBytes = c.BufferBytesDefault / 2
	}

	for _, model := range c.LowLatencyModels {
		if strings.HasPrefix(deviceModel, model) {
			t.RingDepth = c.RingDepthLow
			t.BufferBytes = c.LowLatencyBufferBytes
			t.Preroll = 1
			break
		}
	}

	return t
}
