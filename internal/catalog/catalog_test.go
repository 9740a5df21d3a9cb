package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_JSONGolden(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	data, err := c.JSON()
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "catalog", data)
}

func TestCatalog_Get(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	p, ok := c.Get("p3")
	require.True(t, ok)
	assert.Equal(t, "Set Graphique Orange", p.Name)
	assert.Equal(t, 32, p.Price)
	assert.Equal(t, "M", p.DefaultSize())

	_, ok = c.Get("p99")
	assert.False(t, ok)

	assert.Equal(t, "p1", c.First().ID)
}

func TestCatalog_Search(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"p1", "p2", "p3", "p4", "p5", "p6", "p7", "p8"}},
		{"beige", []string{"p1", "p6", "p7"}},
		{"  CHEMISE ", []string{"p2", "p4", "p5"}},
		{"rayée", []string{"p4"}},
		{"pantalon", nil},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var got []string
			for _, p := range c.Search(tt.query) {
				got = append(got, p.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCatalog_AllReturnsCopy(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	all := c.All()
	all[0].Name = "changed"

	p, _ := c.Get("p1")
	assert.Equal(t, "Ensemble Beige Artist", p.Name)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"empty", "[]", "no products"},
		{"unknown field", "- id: a\n  sizes: [M]\n  colour: red\n", "failed to parse catalog"},
		{"missing id", "- name: x\n  sizes: [M]\n", "has no id"},
		{"duplicate", "- id: a\n  sizes: [M]\n- id: a\n  sizes: [L]\n", "duplicate product id"},
		{"no sizes", "- id: a\n", "has no sizes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Parse([]byte(tt.yaml))
			assert.Nil(t, c)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- id: x1\n  name: Test\n  price: 5\n  sizes: [U]\n  img: images/x.jpg\n"), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, c.All(), 1)

	c, err = Load("")
	require.NoError(t, err)
	assert.Len(t, c.All(), 8)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read catalog file")
}
