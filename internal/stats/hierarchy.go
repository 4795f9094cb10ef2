package stats

import (
	"context"

	"jellywrapped/internal/models"
)

const seriesType = "Series"

// hierarchy is the per-request episode/season/show index. Built once from
// the distinct episode ids of a query result and reused by every rollup
// that needs the parent walk. Episodes whose parent chain cannot be
// resolved are counted as orphans and dropped from rollups.
type hierarchy struct {
	items   map[string]models.ContentItem
	orphans int
}

// buildHierarchy resolves the episodes, then their parents (seasons, or
// shows for episodes that sit directly under one), then the parents of
// those seasons (shows), accumulating everything into one index. A show's
// own parent is a library folder and is never resolved. Resolution
// failures shrink the index rather than failing the build.
func (e *Engine) buildHierarchy(ctx context.Context, creds models.Credentials, episodeIDs []string) *hierarchy {
	h := &hierarchy{items: make(map[string]models.ContentItem)}

	level := episodeIDs
	for depth := 0; depth < 3 && len(level) > 0; depth++ {
		resolved, _ := e.catalog.ItemsByID(ctx, creds, level)

		var parents []string
		seen := make(map[string]bool)
		for _, item := range resolved {
			h.items[item.ID] = item
			if item.Type == seriesType {
				continue
			}
			pid := item.ParentID
			if pid == "" || seen[pid] {
				continue
			}
			if _, known := h.items[pid]; known {
				continue
			}
			seen[pid] = true
			parents = append(parents, pid)
		}
		level = parents
	}
	return h
}

func (h *hierarchy) item(id string) (models.ContentItem, bool) {
	it, ok := h.items[id]
	return it, ok
}

// showFor walks episode -> season -> show. The season level may be absent,
// in which case the episode's parent is the show itself. An unresolvable
// link drops the episode from rollups and bumps the orphan count.
func (h *hierarchy) showFor(episodeID string) (models.ContentItem, bool) {
	ep, ok := h.items[episodeID]
	if !ok {
		h.orphans++
		return models.ContentItem{}, false
	}
	parent, ok := h.items[ep.ParentID]
	if !ok {
		h.orphans++
		return models.ContentItem{}, false
	}
	if parent.Type == seriesType || parent.ParentID == "" {
		return parent, true
	}
	show, ok := h.items[parent.ParentID]
	if !ok {
		h.orphans++
		return models.ContentItem{}, false
	}
	return show, true
}
