package stats

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jellywrapped/internal/jellyfin"
	"jellywrapped/internal/models"
)

func actorFixture() (*fakeQueries, *fakeCatalog) {
	queries := &fakeQueries{results: map[string]jellyfin.QueryResult{
		"ItemType = 'Movie'": result(
			[]string{"ItemId", "PlayCount", "TotalDuration"},
			[]string{"m1", "1", "3600"},
			[]string{"m2", "1", "3600"},
		),
		"ItemType = 'Episode'": result(
			[]string{"ItemId", "PlayDuration"},
			[]string{"ep1", "1800"},
		),
	}}

	items := episodeFixture()
	show := items["show1"]
	show.People = []models.Person{
		{Name: "Adam Scott", Type: "Actor"},
		{Name: "Ben Stiller", Type: "Director"},
	}
	items["show1"] = show
	items["m1"] = models.ContentItem{ID: "m1", Name: "Severance Movie", People: []models.Person{
		{Name: "Adam Scott", Type: "Actor"},
		{Name: "Patricia Arquette", Type: "Actor"},
	}}
	items["m2"] = models.ContentItem{ID: "m2", Name: "Other Movie", People: []models.Person{
		{Name: "Patricia Arquette", Type: "Actor"},
		{Name: "Lone Cameo", Type: "Actor"},
	}}
	return queries, &fakeCatalog{items: items}
}

func TestFavoriteActorsFiltersSingleAppearances(t *testing.T) {
	queries, catalog := actorFixture()

	actors, err := New(queries, catalog).FavoriteActors(context.Background(), testCreds, year2024())
	require.NoError(t, err)

	names := make([]string, 0, len(actors))
	for _, a := range actors {
		names = append(names, a.Name)
		assert.Greater(t, a.Count, 1, "%s appears once and is not a favorite", a.Name)
	}
	assert.NotContains(t, names, "Lone Cameo")
	assert.NotContains(t, names, "Ben Stiller") // director, not cast
}

func TestFavoriteActorsCountsAndBackrefs(t *testing.T) {
	queries, catalog := actorFixture()

	actors, err := New(queries, catalog).FavoriteActors(context.Background(), testCreds, year2024())
	require.NoError(t, err)
	require.Len(t, actors, 2)

	// Both have count 2; the alphabetical tie-break puts Adam Scott first.
	assert.Equal(t, "Adam Scott", actors[0].Name)
	assert.Equal(t, 1, actors[0].MovieCount)
	assert.Equal(t, 1, actors[0].ShowCount)
	require.Len(t, actors[0].Movies, 1)
	assert.Equal(t, "Severance Movie", actors[0].Movies[0].Name)
	require.Len(t, actors[0].Shows, 1)
	assert.Equal(t, "Severance", actors[0].Shows[0].Name)

	assert.Equal(t, "Patricia Arquette", actors[1].Name)
	assert.Equal(t, 2, actors[1].MovieCount)
	assert.Equal(t, 0, actors[1].ShowCount)
}

func TestFavoriteActorsDeduplicatesWithinOneItem(t *testing.T) {
	queries := &fakeQueries{results: map[string]jellyfin.QueryResult{
		"ItemType = 'Movie'": result(
			[]string{"ItemId", "PlayCount", "TotalDuration"},
			[]string{"m1", "1", "3600"},
			[]string{"m2", "1", "3600"},
		),
	}}
	catalog := &fakeCatalog{items: map[string]models.ContentItem{
		"m1": {ID: "m1", Name: "Dual Role", People: []models.Person{
			{Name: "Tom Hardy", Role: "Ronnie", Type: "Actor"},
			{Name: "Tom Hardy", Role: "Reggie", Type: "Actor"},
		}},
		"m2": {ID: "m2", Name: "Other", People: []models.Person{
			{Name: "Tom Hardy", Type: "Actor"},
		}},
	}}

	actors, err := New(queries, catalog).FavoriteActors(context.Background(), testCreds, year2024())
	require.NoError(t, err)
	require.Len(t, actors, 1)

	// Two credited roles in one film still count as one appearance.
	assert.Equal(t, 2, actors[0].Count)
	assert.Equal(t, 2, actors[0].MovieCount)
}
