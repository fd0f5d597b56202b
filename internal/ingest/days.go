package ingest

import (
	"slices"
	"strings"

	"github.com/jengzang/trackmap-go/internal/models"
)

// MergeDescriptions rewrites the description of every fix so that all fixes of a
// date share one name built from the distinct descriptions of that date, e.g.
// "Tallinn-Tartu" and "Tartu-Parnu" become "2024-06-01_Tallinn-Tartu-Parnu".
// The input is not modified.
func MergeDescriptions(fixes []models.Fix) []models.Fix {
	var dates []string
	byDate := make(map[string][]string)
	for _, f := range fixes {
		seen, ok := byDate[f.DayKey]
		if !ok {
			dates = append(dates, f.DayKey)
		}
		if !slices.Contains(seen, f.Description) {
			byDate[f.DayKey] = append(seen, f.Description)
		}
	}

	merged := make(map[string]string, len(dates))
	for _, date := range dates {
		merged[date] = mergedDescription(date, byDate[date])
	}

	out := make([]models.Fix, len(fixes))
	for i, f := range fixes {
		out[i] = f.WithDescription(merged[f.DayKey])
	}
	return out
}

func mergedDescription(date string, descriptions []string) string {
	var combined []string
	for _, d := range descriptions {
		for _, part := range strings.Split(d, "-") {
			if part != "" && !slices.Contains(combined, part) {
				combined = append(combined, part)
			}
		}
	}

	if len(descriptions) > 1 && len(combined) > 0 {
		first := firstPart(descriptions[0])
		last := lastPart(descriptions[len(descriptions)-1])
		if first != "" && combined[0] != first {
			combined = append([]string{first}, combined...)
		}
		if last != "" && combined[len(combined)-1] != last {
			combined = append(combined, last)
		}
	}

	if len(combined) == 0 {
		return date
	}
	return date + "_" + strings.Join(combined, "-")
}

func firstPart(description string) string {
	part, _, _ := strings.Cut(description, "-")
	return part
}

func lastPart(description string) string {
	parts := strings.Split(description, "-")
	return parts[len(parts)-1]
}

// GroupDays splits fixes into days, month by month in first-seen order. Within a
// month fixes are keyed by description, plus the explanation unless fileMerge is
// set. Fixes of a day are sorted by time, keeping input order for equal times.
func GroupDays(fixes []models.Fix, fileMerge bool) []models.Day {
	var days []models.Day
	index := make(map[string]int)

	for _, f := range fixes {
		key := f.Description
		if !fileMerge && f.Explanation != "" {
			key += "_" + f.Explanation
		}
		month := monthOf(f.DayKey)
		id := month + "\x00" + key

		i, ok := index[id]
		if !ok {
			name := f.GroupName
			if fileMerge {
				name = key
			}
			days = append(days, models.Day{Key: key, Name: name, Month: month})
			i = len(days) - 1
			index[id] = i
		}
		days[i].Fixes = append(days[i].Fixes, f)
	}

	// Month folders keep first-seen order, days stay in first-seen order inside them
	var months []string
	for _, d := range days {
		if !slices.Contains(months, d.Month) {
			months = append(months, d.Month)
		}
	}
	ordered := make([]models.Day, 0, len(days))
	for _, m := range months {
		for _, d := range days {
			if d.Month == m {
				ordered = append(ordered, d)
			}
		}
	}

	for i := range ordered {
		slices.SortStableFunc(ordered[i].Fixes, func(a, b models.Fix) int {
			return a.Timestamp.Compare(b.Timestamp)
		})
	}
	return ordered
}

func monthOf(dayKey string) string {
	if len(dayKey) < 7 {
		return dayKey
	}
	return dayKey[:7]
}
