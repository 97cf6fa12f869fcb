package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = "\ufeffurl,subject_id,title,img_url,year,supp_title,平均分,infobox_raw,tags\n" +
	"https://a,101,Frieren,https://img/101.jpg,2023,葬送のフリーレン,9.1,\"话数: 28\",\"日本,奇幻、冒险\"\n" +
	"https://b,102.0,Bocchi,,2022.0,,8.4,,日本;音乐\n" +
	"https://c,,Missing Id,,2020,,7.0,,日本\n" +
	"https://d,104,,,2020,,7.0,,日本\n" +
	"https://e,105,No Score,,2019,,nan,\"话数:12\",\n" +
	"https://f,101,Duplicate,,2019,,5.0,,\n" +
	"https://g,-1,Negative Id,,2018,,6.0,,日本\n"

func TestReadCSVParsesRows(t *testing.T) {
	c, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	require.Equal(t, 3, c.Len())
	assert.Equal(t, 4, c.Dropped())
	assert.Equal(t, []int64{101, 102, 105}, c.HeadIDs(10))

	frieren, ok := c.Get(101)
	require.True(t, ok)
	assert.Equal(t, "Frieren", frieren.Title)
	assert.Equal(t, "葬送のフリーレン", frieren.OriginalTitle)
	require.NotNil(t, frieren.Score)
	assert.InDelta(t, 9.1, *frieren.Score, 1e-9)
	assert.Equal(t, 28, frieren.EpisodeCount)
	assert.Equal(t, 2023, frieren.Year)
	assert.Equal(t, "日本,奇幻、冒险", frieren.Tags)
	assert.Equal(t, defaultSynopsis, frieren.Synopsis)

	bocchi, ok := c.Get(102)
	require.True(t, ok)
	assert.Equal(t, "Bocchi", bocchi.OriginalTitle)
	assert.Equal(t, 2022, bocchi.Year)
	assert.Equal(t, 1, bocchi.EpisodeCount)

	noScore, ok := c.Get(105)
	require.True(t, ok)
	assert.Nil(t, noScore.Score)
	assert.Equal(t, 0.0, noScore.ScoreOrZero())
	assert.Equal(t, 12, noScore.EpisodeCount)
}

func TestReadCSVRequiresColumns(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("id,name\n1,x\n"))
	require.ErrorIs(t, err, ErrMissingColumn)
}

func TestReadCSVEmptyInput(t *testing.T) {
	c, err := ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestUniqueAndTopTags(t *testing.T) {
	c := New([]Item{
		{ID: 1, Title: "a", Tags: "日本, 奇幻;冒险"},
		{ID: 2, Title: "b", Tags: "日本、音乐"},
		{ID: 3, Title: "c"},
	})

	assert.Equal(t, []string{"冒险", "奇幻", "日本", "音乐"}, c.UniqueTags())

	top := c.TopTags(1)
	require.Len(t, top, 1)
	assert.Equal(t, TagCount{Tag: "日本", Count: 2}, top[0])
}

func TestHeadIDsBounds(t *testing.T) {
	c := New([]Item{{ID: 1}, {ID: 2}})
	assert.Equal(t, []int64{1, 2}, c.HeadIDs(10))
	assert.Equal(t, []int64{1}, c.HeadIDs(1))
	assert.Empty(t, c.HeadIDs(-1))
	assert.True(t, c.Contains(2))
	assert.False(t, c.Contains(3))
}

func TestLoadCSVAndHash(t *testing.T) {
	path := filepath.Join(t.TempDir(), "full_data.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o600))

	c, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())

	first, err := Hash(path)
	require.NoError(t, err)
	assert.Len(t, first, 64)

	second, err := Hash(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	_, err = LoadCSV(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
