package stats

import (
	"context"
	"sort"

	"jellywrapped/internal/models"
)

const actorType = "Actor"

// FavoriteActors pools the cast of the timeframe's movies and shows and
// ranks people by how many distinct items they appeared in. People seen in
// a single item are not favorites and are filtered out. Ties are broken
// alphabetically so the ranking is deterministic.
func (e *Engine) FavoriteActors(ctx context.Context, creds models.Credentials, tf models.Timeframe) ([]models.FavoriteActor, error) {
	movies, err := e.TopMovies(ctx, creds, tf)
	if err != nil {
		return nil, err
	}
	shows, _, err := e.TopShows(ctx, creds, tf)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]*models.FavoriteActor)

	appear := func(item models.ContentItem, isMovie bool) {
		seen := make(map[string]bool, len(item.People))
		for _, p := range item.People {
			if p.Type != actorType || p.Name == "" || seen[p.Name] {
				continue
			}
			seen[p.Name] = true

			a := byName[p.Name]
			if a == nil {
				a = &models.FavoriteActor{Name: p.Name}
				byName[p.Name] = a
			}
			a.Count++
			if isMovie {
				a.MovieCount++
				a.Movies = append(a.Movies, item)
			} else {
				a.ShowCount++
				a.Shows = append(a.Shows, item)
			}
		}
	}

	for _, m := range movies {
		appear(m.Item, true)
	}
	for _, s := range shows {
		appear(s.Item, false)
	}

	actors := make([]models.FavoriteActor, 0, len(byName))
	for _, a := range byName {
		if a.Count > 1 {
			actors = append(actors, *a)
		}
	}
	sort.Slice(actors, func(i, j int) bool {
		if actors[i].Count != actors[j].Count {
			return actors[i].Count > actors[j].Count
		}
		return actors[i].Name < actors[j].Name
	})
	return actors, nil
}
