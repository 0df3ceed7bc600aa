package tags

import (
	"strings"

	"thingsdo-cli/internal/model"
)

// Projects indexes projects by id for inheritance lookups.
type Projects map[string]model.Item

func IndexProjects(items []model.Item) Projects {
	out := make(Projects, len(items))
	for _, it := range items {
		if it.Kind == model.KindProject {
			out[it.ID] = it
		}
	}
	return out
}

// Live returns the project if id resolves to a non-deleted project.
func (p Projects) Live(id string) (model.Item, bool) {
	it, ok := p[strings.TrimSpace(id)]
	if !ok || it.Kind != model.KindProject || it.Deleted() {
		return model.Item{}, false
	}
	return it, true
}

// Effective returns the tags used for filtering: a project's own tags, or a
// task's own tags plus those of its live parent project. Stored tag ids are
// never modified.
func Effective(it model.Item, projects Projects) Set {
	out := NewSet(it.TagIDs...)
	if it.Kind != model.KindTask || it.ParentID == nil {
		return out
	}
	if p, ok := projects.Live(*it.ParentID); ok {
		out.Add(p.TagIDs...)
	}
	return out
}
