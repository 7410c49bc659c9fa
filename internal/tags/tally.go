package tags

import "sort"

// Tally counts tag occurrences across records.
type Tally struct {
	Counts map[string]int
	Tokens int // tag tokens counted, duplicates included
}

type TagCount struct {
	Tag   string
	Count int
}

// Partition splits the distinct tags of a tally at a threshold. Removed is
// ordered by ascending count, then tag.
type Partition struct {
	Threshold int
	Kept      []TagCount
	Removed   []TagCount
}

func Count(records []Record) Tally {
	t := Tally{Counts: map[string]int{}}
	for _, rec := range records {
		for _, tag := range rec.Tags {
			t.Counts[tag.Name]++
			t.Tokens++
		}
	}
	return t
}

func (t Tally) Distinct() int { return len(t.Counts) }

// Partition keeps tags with count >= threshold and removes the rest.
func (t Tally) Partition(threshold int) Partition {
	p := Partition{Threshold: threshold}
	for tag, n := range t.Counts {
		tc := TagCount{Tag: tag, Count: n}
		if n < threshold {
			p.Removed = append(p.Removed, tc)
		} else {
			p.Kept = append(p.Kept, tc)
		}
	}
	sort.Slice(p.Removed, func(i, j int) bool { return lessByCount(p.Removed[i], p.Removed[j]) })
	sort.Slice(p.Kept, func(i, j int) bool {
		if p.Kept[i].Count != p.Kept[j].Count {
			return p.Kept[i].Count > p.Kept[j].Count
		}
		return p.Kept[i].Tag < p.Kept[j].Tag
	})
	return p
}

func lessByCount(a, b TagCount) bool {
	if a.Count != b.Count {
		return a.Count < b.Count
	}
	return a.Tag < b.Tag
}

// RemovedSet returns the identities of the removed tags.
func (p Partition) RemovedSet() map[string]struct{} {
	set := make(map[string]struct{}, len(p.Removed))
	for _, tc := range p.Removed {
		set[tc.Tag] = struct{}{}
	}
	return set
}
