// Package catalog provides a CatalogGateway backed by in-process tables,
// either the built-in sample library or tables loaded from YAML or JSON.
package catalog

import "github.com/aretw0/ragso/pkg/domain"

// DefaultPurchasePitch is offered for titles the library holds no copy of.
const DefaultPurchasePitch = "소장하지 않은 도서입니다. 희망도서 구입을 신청하시겠습니까?"

// SeatRecord is a seat plus its current availability.
type SeatRecord struct {
	domain.Seat `yaml:",inline"`
	Available   bool `json:"available" yaml:"available"`
}

// BiblioRecord is a Biblio plus the search keywords that surface it.
// A record with no items is offered as a purchase suggestion instead of a
// match, using Pitch (or DefaultPurchasePitch).
type BiblioRecord struct {
	domain.Biblio `yaml:",inline"`
	Keywords      []string `json:"keywords" yaml:"keywords"`
	Pitch         string   `json:"pitch,omitempty" yaml:"pitch,omitempty"`
}

// Tables is the whole catalog.
type Tables struct {
	Seats   []SeatRecord   `json:"seats" yaml:"seats"`
	Biblios []BiblioRecord `json:"biblios" yaml:"biblios"`
	Items   []domain.Item  `json:"items" yaml:"items"`
}

var programmingKeywords = []string{"파이썬", "python", "프로그래밍", "programming", "코딩", "coding"}

// Default returns the sample library used by the CLI and tests.
func Default() Tables {
	return Tables{
		Seats: []SeatRecord{
			{Seat: domain.Seat{ID: "S233", Name: "좌석 233", Location: "제1열람실-3"}, Available: true},
			{Seat: domain.Seat{ID: "S234", Name: "좌석 234", Location: "제1열람실-3"}, Available: true},
			{Seat: domain.Seat{ID: "S101", Name: "좌석 101", Location: "제2열람실-1"}, Available: true},
			{Seat: domain.Seat{ID: "S102", Name: "좌석 102", Location: "제2열람실-1"}, Available: true},
			{Seat: domain.Seat{ID: "S305", Name: "좌석 305", Location: "제3열람실-2"}, Available: false},
		},
		Biblios: []BiblioRecord{
			{
				Biblio: domain.Biblio{
					ID:               "B1",
					Title:            "혼자 공부하는 파이썬",
					Author:           "윤인성",
					Publication:      "한빛미디어, 2022",
					Description:      "1:1 과외하듯 배우는 프로그래밍 자습서",
					ItemIDs:          []string{"I1", "I2", "I3"},
					RelatedBiblioIDs: []string{"B2", "B3", "B99"},
				},
				Keywords: programmingKeywords,
			},
			{
				Biblio: domain.Biblio{
					ID:               "B2",
					Title:            "Do it! 점프 투 파이썬",
					Author:           "박응용",
					Publication:      "이지스퍼블리싱, 2023",
					Description:      "프로그래밍 분야 스테디셀러 파이썬 입문서",
					ItemIDs:          []string{"I4"},
					RelatedBiblioIDs: []string{"B1"},
				},
				Keywords: programmingKeywords,
			},
			{
				Biblio: domain.Biblio{
					ID:          "B3",
					Title:       "Clean Code",
					Author:      "로버트 C. 마틴",
					Publication: "인사이트, 2013",
					Description: "애자일 소프트웨어 장인 정신",
					ItemIDs:     []string{"I5"},
				},
				Keywords: []string{"clean code", "클린 코드", "클린코드", "refactoring", "리팩터링"},
			},
			{
				Biblio: domain.Biblio{
					ID:          "B4",
					Title:       "파이썬 코딩의 기술",
					Author:      "브렛 슬라킨",
					Publication: "길벗, 2020",
					Description: "파이썬다운 코드를 작성하는 90가지 방법",
				},
				Keywords: programmingKeywords,
			},
		},
		Items: []domain.Item{
			{ID: "I1", BiblioID: "B1", Title: "혼자 공부하는 파이썬", Available: true, Location: "자료실 3층 005.133 윤68ㅎ c.1"},
			{ID: "I2", BiblioID: "B1", Title: "혼자 공부하는 파이썬", Available: false, Location: "자료실 3층 005.133 윤68ㅎ c.2"},
			{ID: "I3", BiblioID: "B1", Title: "혼자 공부하는 파이썬", Available: true, Location: "보존서고 005.133 윤68ㅎ c.3"},
			{ID: "I4", BiblioID: "B2", Title: "Do it! 점프 투 파이썬", Available: true, Location: "자료실 3층 005.133 박64ㄷ"},
			{ID: "I5", BiblioID: "B3", Title: "Clean Code", Available: false, Location: "자료실 3층 005.1 마844ㅋ"},
		},
	}
}
