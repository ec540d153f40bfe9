package versions

import (
	"sort"
	"strings"
)

// canonicalLoaders is the set of loader names the platform knows
// about. Anything else found on stored versions is historical drift
// and is dropped from aggregates rather than treated as an error.
var canonicalLoaders = map[string]bool{
	"fabric":     true,
	"forge":      true,
	"neoforge":   true,
	"quilt":      true,
	"liteloader": true,
	"rift":       true,
	"modloader":  true,
	"bukkit":     true,
	"spigot":     true,
	"paper":      true,
	"purpur":     true,
	"folia":      true,
	"velocity":   true,
	"bungeecord": true,
	"sponge":     true,
	"datapack":   true,
	"iris":       true,
	"optifine":   true,
	"canvas":     true,
	"vanilla":    true,
}

// KnownLoader reports whether name is a loader the platform accepts on
// new versions.
func KnownLoader(name string) bool {
	return canonicalLoaders[strings.ToLower(name)]
}

// VersionLists carries the per-version slices the aggregator reads.
type VersionLists struct {
	ID           string
	Loaders      []string
	GameVersions []string
}

// Aggregate computes a project's denormalized loader and game-version
// lists: the deduplicated union over every existing version not in
// excluded, plus the incoming lists of a version being created. It is
// a pure function; callers pass the deleted/pruned version ids as
// excluded and empty incoming lists on deletion.
//
// Loaders are filtered to the canonical set and sorted for stable
// output. Game versions are sorted semantically, so "1.9" comes
// before "1.10".
func Aggregate(existing []VersionLists, excluded map[string]bool, incomingLoaders, incomingGameVersions []string) (loaders []string, gameVersions []string) {
	loaderSet := make(map[string]bool)
	gameVersionSet := make(map[string]bool)

	collect := func(ls, gvs []string) {
		for _, l := range ls {
			l = strings.ToLower(l)
			if canonicalLoaders[l] {
				loaderSet[l] = true
			}
		}
		for _, gv := range gvs {
			if gv != "" {
				gameVersionSet[gv] = true
			}
		}
	}

	for _, v := range existing {
		if excluded[v.ID] {
			continue
		}
		collect(v.Loaders, v.GameVersions)
	}
	collect(incomingLoaders, incomingGameVersions)

	loaders = make([]string, 0, len(loaderSet))
	for l := range loaderSet {
		loaders = append(loaders, l)
	}
	sort.Strings(loaders)

	gameVersions = make([]string, 0, len(gameVersionSet))
	for gv := range gameVersionSet {
		gameVersions = append(gameVersions, gv)
	}
	sort.Slice(gameVersions, func(i, j int) bool {
		return CompareGameVersions(gameVersions[i], gameVersions[j]) < 0
	})

	return loaders, gameVersions
}

// CompareGameVersions orders game version strings numerically where
// possible: "1.9" < "1.10" < "1.10.2". Game versions are not semver
// (snapshot names like "23w31a" appear in the wild), so the comparison
// walks alternating numeric and non-numeric runs and falls back to
// string order for the non-numeric parts.
func CompareGameVersions(a, b string) int {
	at := tokenizeVersion(a)
	bt := tokenizeVersion(b)

	for i := 0; i < len(at) && i < len(bt); i++ {
		if c := at[i].compare(bt[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(at) < len(bt):
		return -1
	case len(at) > len(bt):
		return 1
	default:
		return 0
	}
}

type versionToken struct {
	num     int
	text    string
	numeric bool
}

func (t versionToken) compare(o versionToken) int {
	if t.numeric && o.numeric {
		switch {
		case t.num < o.num:
			return -1
		case t.num > o.num:
			return 1
		default:
			return 0
		}
	}
	if t.numeric != o.numeric {
		// Numeric runs sort before text runs: releases before suffixes.
		if t.numeric {
			return -1
		}
		return 1
	}
	return strings.Compare(t.text, o.text)
}

func tokenizeVersion(s string) []versionToken {
	var tokens []versionToken
	i := 0
	for i < len(s) {
		c := s[i]
		if c == '.' || c == '-' || c == '_' || c == '+' {
			i++
			continue
		}
		j := i
		if c >= '0' && c <= '9' {
			num := 0
			for j < len(s) && s[j] >= '0' && s[j] <= '9' {
				num = num*10 + int(s[j]-'0')
				j++
			}
			tokens = append(tokens, versionToken{num: num, numeric: true})
		} else {
			for j < len(s) && !(s[j] >= '0' && s[j] <= '9') && s[j] != '.' && s[j] != '-' && s[j] != '_' && s[j] != '+' {
				j++
			}
			tokens = append(tokens, versionToken{text: strings.ToLower(s[i:j])})
		}
		i = j
	}
	return tokens
}
