package provider

import "strings"

// TMDB genre ids.
const (
	GenreAction      = 28
	GenreAdventure   = 12
	GenreAnimation   = 16
	GenreComedy      = 35
	GenreCrime       = 80
	GenreDocumentary = 99
	GenreDrama       = 18
	GenreFamily      = 10751
	GenreFantasy     = 14
	GenreHistory     = 36
	GenreHorror      = 27
	GenreMusic       = 10402
	GenreMystery     = 9648
	GenreRomance     = 10749
	GenreSciFi       = 878
	GenreThriller    = 53
	GenreWar         = 10752
	GenreWestern     = 37
)

// GenreNames maps TMDB genre ids to the Korean names shown to users.
var GenreNames = map[int]string{
	GenreAction:      "액션",
	GenreAdventure:   "모험",
	GenreAnimation:   "애니메이션",
	GenreComedy:      "코미디",
	GenreCrime:       "범죄",
	GenreDocumentary: "다큐멘터리",
	GenreDrama:       "드라마",
	GenreFamily:      "가족",
	GenreFantasy:     "판타지",
	GenreHistory:     "역사",
	GenreHorror:      "공포",
	GenreMusic:       "음악",
	GenreMystery:     "미스터리",
	GenreRomance:     "로맨스",
	GenreSciFi:       "SF",
	GenreThriller:    "스릴러",
	GenreWar:         "전쟁",
	GenreWestern:     "서부",
}

// DefaultGenre is used when none of a movie's genres is known.
const DefaultGenre = "드라마"

// GenreLabel joins the names of the first two ids with "/". Unknown ids among
// the first two are skipped, not replaced by later ones.
func GenreLabel(ids []int) string {
	if len(ids) > 2 {
		ids = ids[:2]
	}
	var names []string
	for _, id := range ids {
		if n, ok := GenreNames[id]; ok {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		return DefaultGenre
	}
	return strings.Join(names, "/")
}
