package modhub

import (
	"github.com/modhub/modhub/pkg/catalog"
)

// HandleProgress routes a download-progress event into the first entry with
// a matching ID across the remote and search lists, in that order, scaling
// the fraction to 0-100 and mutating the entry's progress field in place.
// Progress only applies to not-yet-installed entries being downloaded, so
// the installed and updatable lists are not searched. An unmatched ID is
// dropped silently: the entry may have scrolled out of a loaded page or
// been superseded, which is not an error.
func (h *hub) HandleProgress(id string, fraction float64) {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	percent := int(fraction * 100)

	set := func(e *catalog.RemoteEntry) { e.Progress = percent }

	h.apply(func() {
		if h.sections.Remote.Mutate(id, set) {
			return
		}
		h.sections.Search.Mutate(id, set)
	})
}
