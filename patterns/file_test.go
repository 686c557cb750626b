package patterns

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestEncodeDecode(t *testing.T) {
	glider, _ := Lookup("glider")
	at := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

	data, err := NewFile(glider, "Ada", at).Encode()
	require.NoError(t, err)

	assert.Equal(t, "Ada", gjson.GetBytes(data, "author").String())
	assert.Equal(t, "2024-03-01T12:30:00Z", gjson.GetBytes(data, "date").String())
	assert.Equal(t, "glider", gjson.GetBytes(data, "name").String())

	p, err := DecodeFile(data)
	require.NoError(t, err)
	assert.Equal(t, glider.Rows, p.Rows)
	assert.Equal(t, "glider", p.Name)
}

func TestDecodeFileMinimal(t *testing.T) {
	p, err := DecodeFile([]byte(`{"pattern": [[1, 0], [0, 1]]}`))
	require.NoError(t, err)
	assert.Equal(t, "imported", p.Name)
	assert.Equal(t, [][]uint8{{1, 0}, {0, 1}}, p.Rows)
}

func TestDecodeFileEmptyPattern(t *testing.T) {
	p, err := DecodeFile([]byte(`{"name": "nothing", "pattern": []}`))
	require.NoError(t, err)
	assert.Zero(t, p.Height())
	assert.Zero(t, p.Population())
}

func TestDecodeFileRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"not json":        `{"pattern": [[1,0]`,
		"missing pattern": `{"name": "x"}`,
		"pattern object":  `{"pattern": {"a": 1}}`,
		"row not array":   `{"pattern": [1, 0]}`,
		"empty row":       `{"pattern": [[]]}`,
		"ragged rows":     `{"pattern": [[1, 0], [1]]}`,
		"value 2":         `{"pattern": [[1, 2]]}`,
		"string cell":     `{"pattern": [["1", 0]]}`,
		"fraction":        `{"pattern": [[0.5, 1]]}`,
		"bool cell":       `{"pattern": [[true, 0]]}`,
	}
	for name, doc := range cases {
		_, err := DecodeFile([]byte(doc))
		assert.True(t, errors.Is(err, ErrMalformedPattern), name)
	}
}
