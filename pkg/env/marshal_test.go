package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleConfig struct {
	URL     string  `env:"SAMPLE_URL"`
	Count   int     `env:"SAMPLE_COUNT"`
	Rate    float64 `env:"SAMPLE_RATE"`
	Flag    bool    `env:"SAMPLE_FLAG"`
	Skipped string  `env:"-"`
	NoTag   string
	Empty   string `env:"SAMPLE_EMPTY"`
}

func TestMarshalEnv(t *testing.T) {
	got, err := MarshalEnv(&sampleConfig{
		URL:     "http://localhost:4000",
		Count:   20,
		Rate:    0.5,
		Flag:    true,
		Skipped: "nope",
		NoTag:   "nope",
	})
	require.NoError(t, err)

	assert.Equal(t, "SAMPLE_URL=http://localhost:4000\nSAMPLE_COUNT=20\nSAMPLE_RATE=0.5\nSAMPLE_FLAG=true\n", got)
}

func TestMarshalEnvRejectsNonStruct(t *testing.T) {
	_, err := MarshalEnv("not a struct")
	assert.Error(t, err)
}
