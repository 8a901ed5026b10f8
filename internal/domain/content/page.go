package content

import "sort"

// PageSection is one normalised section ready for rendering
type PageSection struct {
	Key     SectionKey `json:"section_key"`
	Order   int        `json:"order"`
	Stored  bool       `json:"stored"`
	Content Section    `json:"content"`
}

// BuildPage merges stored rows with defaults for every known section and sorts
// the result by order. Rows with undecodable content fall back to defaults and
// are reported in the second return value.
func BuildPage(rows []HomePageContent) ([]PageSection, map[SectionKey]error) {
	stored := make(map[SectionKey]HomePageContent, len(rows))
	for _, row := range rows {
		stored[row.SectionKey] = row
	}

	failures := make(map[SectionKey]error)
	page := make([]PageSection, 0, len(AllSectionKeys))
	for _, key := range AllSectionKeys {
		ps := PageSection{Key: key, Order: key.DefaultOrder()}
		if row, ok := stored[key]; ok {
			section, err := row.Section()
			if err == nil {
				ps.Content = section
				ps.Order = row.Order
				ps.Stored = true
			} else {
				failures[key] = err
			}
		}
		if ps.Content == nil {
			section, err := Decode(key, nil)
			if err != nil {
				failures[key] = err
				continue
			}
			ps.Content = section
		}
		page = append(page, ps)
	}

	sort.SliceStable(page, func(i, j int) bool {
		return page[i].Order < page[j].Order
	})
	return page, failures
}
