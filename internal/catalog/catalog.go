// Package catalog holds the built-in movie list used when the external
// provider yields nothing.
package catalog

import "github.com/rcliao/vibe-recommender/internal/model"

const posterBase = "https://image.tmdb.org/t/p/w500/"

func poster(file string) string { return posterBase + file }

var movies = []model.Movie{
	{
		ID:          "movie_001",
		Title:       "기생충",
		Director:    "봉준호",
		Genre:       "스릴러/드라마",
		MoodTags:    []string{"긴장", "사색", "강렬함", "집중"},
		Energy:      7,
		Valence:     4,
		Description: "사회적 계급을 날카롭게 풍자한 스릴러",
		ImageURL:    model.PlaceholderImage,
	},
	{
		ID:          "movie_002",
		Title:       "어바웃 타임",
		Director:    "리처드 커티스",
		Genre:       "로맨스/코미디",
		MoodTags:    []string{"로맨틱", "따뜻함", "행복", "위로"},
		Energy:      5,
		Valence:     9,
		Description: "시간 여행을 통한 따뜻한 가족과 사랑 이야기",
		ImageURL:    model.PlaceholderImage,
	},
	{
		ID:          "movie_003",
		Title:       "라라랜드",
		Director:    "데미안 셔젤",
		Genre:       "뮤지컬/로맨스",
		MoodTags:    []string{"로맨틱", "감성", "밝음", "에너지"},
		Energy:      6,
		Valence:     7,
		Description: "꿈과 사랑을 그린 아름다운 뮤지컬",
		ImageURL:    poster("uDO8zWDhfWwoFdKS4fzkUJt0Rf0.jpg"),
	},
	{
		ID:          "movie_004",
		Title:       "인터스텔라",
		Director:    "크리스토퍼 놀란",
		Genre:       "SF/드라마",
		MoodTags:    []string{"사색", "감성", "집중", "강렬함"},
		Energy:      6,
		Valence:     5,
		Description: "우주를 배경으로 한 감동적인 아버지와 딸의 이야기",
		ImageURL:    poster("gEU2QniE6E77NI6lCU6MxlNBvIx.jpg"),
	},
	{
		ID:          "movie_005",
		Title:       "위플래시",
		Director:    "데미안 셔젤",
		Genre:       "드라마",
		MoodTags:    []string{"에너지", "강렬함", "집중", "동기부여"},
		Energy:      9,
		Valence:     6,
		Description: "음악에 대한 열정과 집착을 그린 강렬한 드라마",
		ImageURL:    poster("lIv1QinFqz4dlp5U4lQ6HaiskOZ.jpg"),
	},
	{
		ID:          "movie_006",
		Title:       "레옹",
		Director:    "뤽 베송",
		Genre:       "액션/드라마",
		MoodTags:    []string{"강렬함", "감성", "위로", "밤감성"},
		Energy:      7,
		Valence:     5,
		Description: "킬러와 소녀의 특별한 우정을 그린 액션 드라마",
		ImageURL:    model.PlaceholderImage,
	},
	{
		ID:          "movie_007",
		Title:       "노트북",
		Director:    "닉 카사베티스",
		Genre:       "로맨스/드라마",
		MoodTags:    []string{"로맨틱", "감성", "위로", "따뜻함"},
		Energy:      4,
		Valence:     7,
		Description: "시간을 초월한 영원한 사랑 이야기",
		ImageURL:    model.PlaceholderImage,
	},
	{
		ID:          "movie_008",
		Title:       "인셉션",
		Director:    "크리스토퍼 놀란",
		Genre:       "SF/스릴러",
		MoodTags:    []string{"집중", "사색", "강렬함", "긴장"},
		Energy:      8,
		Valence:     5,
		Description: "꿈 속 꿈을 다룬 복잡하고 강렬한 SF 스릴러",
		ImageURL:    poster("edv5CZvWj09upOsy2Y6IwDhK8bt.jpg"),
	},
	{
		ID:          "movie_009",
		Title:       "토이 스토리 4",
		Director:    "조시 쿨리",
		Genre:       "애니메이션/코미디",
		MoodTags:    []string{"밝음", "즐거움", "행복", "위로"},
		Energy:      6,
		Valence:     9,
		Description: "따뜻하고 유쾌한 가족 애니메이션",
		ImageURL:    model.PlaceholderImage,
	},
	{
		ID:          "movie_010",
		Title:       "헤어질 결심",
		Director:    "박찬욱",
		Genre:       "로맨스/스릴러",
		MoodTags:    []string{"감성", "사색", "로맨틱", "밤감성"},
		Energy:      4,
		Valence:     4,
		Description: "아름답고 미묘한 감정을 그린 로맨틱 스릴러",
		ImageURL:    model.PlaceholderImage,
	},
	{
		ID:          "movie_011",
		Title:       "위대한 쇼맨",
		Director:    "마이클 그레이시",
		Genre:       "뮤지컬/드라마",
		MoodTags:    []string{"에너지", "밝음", "자신감", "동기부여"},
		Energy:      8,
		Valence:     8,
		Description: "꿈을 향한 열정을 담은 화려한 뮤지컬",
		ImageURL:    model.PlaceholderImage,
	},
	{
		ID:          "movie_012",
		Title:       "파리, 텍사스",
		Director:    "빔 벤더스",
		Genre:       "드라마",
		MoodTags:    []string{"사색", "감성", "잔잔함", "위로"},
		Energy:      2,
		Valence:     4,
		Description: "조용하고 깊이 있는 감성을 담은 드라마",
		ImageURL:    model.PlaceholderImage,
	},
	{
		ID:          "movie_013",
		Title:       "어벤져스: 엔드게임",
		Director:    "루소 형제",
		Genre:       "액션/SF",
		MoodTags:    []string{"에너지", "강렬함", "자신감", "동기부여"},
		Energy:      9,
		Valence:     7,
		Description: "강렬한 액션과 감동을 담은 슈퍼히어로 영화",
		ImageURL:    model.PlaceholderImage,
	},
	{
		ID:          "movie_014",
		Title:       "이터널 선샤인",
		Director:    "미셸 공드리",
		Genre:       "로맨스/드라마",
		MoodTags:    []string{"로맨틱", "감성", "사색", "위로"},
		Energy:      4,
		Valence:     6,
		Description: "기억을 지우는 과정을 통해 본 사랑의 의미",
		ImageURL:    model.PlaceholderImage,
	},
	{
		ID:          "movie_015",
		Title:       "위대한 개츠비",
		Director:    "배즈 루어만",
		Genre:       "로맨스/드라마",
		MoodTags:    []string{"로맨틱", "감성", "밤감성", "사색"},
		Energy:      5,
		Valence:     5,
		Description: "1920년대를 배경으로 한 화려하고 감성적인 로맨스",
		ImageURL:    model.PlaceholderImage,
	},
	{
		ID:          "movie_016",
		Title:       "셰임",
		Director:    "스티브 맥퀸",
		Genre:       "드라마",
		MoodTags:    []string{"감성", "사색", "잔잔함", "위로"},
		Energy:      3,
		Valence:     3,
		Description: "깊이 있는 감정과 인간관계를 그린 드라마",
		ImageURL:    model.PlaceholderImage,
	},
	{
		ID:          "movie_017",
		Title:       "매트릭스",
		Director:    "워쇼스키 형제",
		Genre:       "SF/액션",
		MoodTags:    []string{"강렬함", "집중", "사색", "에너지"},
		Energy:      8,
		Valence:     5,
		Description: "현실과 가상의 경계를 다룬 혁명적인 SF 액션",
		ImageURL:    model.PlaceholderImage,
	},
	{
		ID:          "movie_018",
		Title:       "업",
		Director:    "피트 닥터",
		Genre:       "애니메이션/드라마",
		MoodTags:    []string{"따뜻함", "위로", "행복", "감성"},
		Energy:      5,
		Valence:     8,
		Description: "따뜻한 감동과 모험을 담은 픽사 애니메이션",
		ImageURL:    model.PlaceholderImage,
	},
}

// All returns a copy of the built-in catalog in its fixed order.
func All() []model.Movie {
	out := make([]model.Movie, len(movies))
	for i, m := range movies {
		out[i] = clone(m)
	}
	return out
}

// Len is the size of the built-in catalog.
func Len() int { return len(movies) }

// ByID finds a built-in movie by id.
func ByID(id string) (model.Movie, bool) {
	for _, m := range movies {
		if m.ID == id {
			return clone(m), true
		}
	}
	return model.Movie{}, false
}

// ByDirector lists the built-in movies by director, skipping excludeID.
func ByDirector(director, excludeID string) []model.Movie {
	var out []model.Movie
	for _, m := range movies {
		if m.Director != director || (excludeID != "" && m.ID == excludeID) {
			continue
		}
		out = append(out, clone(m))
	}
	return out
}

func clone(m model.Movie) model.Movie {
	m.MoodTags = append([]string(nil), m.MoodTags...)
	return m
}
