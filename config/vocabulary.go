package config

import (
	"zoo-assistant/models"
	"zoo-assistant/models/visitor"
)

// VisitorCategoryOrder is the precedence used when a message matches the
// keywords of several visitor-info categories: the first listed wins.
var VisitorCategoryOrder = []models.QueryIntent{
	models.IntentTicket,
	models.IntentHours,
	models.IntentClosure,
	models.IntentTransport,
	models.IntentRules,
	models.IntentItinerary,
}

// RelativeDay maps a relative phrase to a day offset from now.
type RelativeDay struct {
	Phrase string
	Offset int
}

// AliasRule adds Aliases to every venue whose name contains Contains.
type AliasRule struct {
	Contains string
	Aliases  []string
}

// KeywordTarget maps a set of message keywords to a canonical name.
type KeywordTarget struct {
	Keyword string
	Target  string
}

// Vocabulary holds every keyword table the router consults. A Vocabulary
// is built once and treated as read-only; replacing it means swapping the
// whole value.
type Vocabulary struct {
	VisitorKeywords   map[models.QueryIntent][]string
	NearbyTriggers    []string
	ItineraryTriggers []string
	RelativeDays      []RelativeDay
	VenueAliasRules   []AliasRule
	ClosureAliases    []KeywordTarget
	HoursVenues       []KeywordTarget
	HolidayClosures   visitor.HolidayOverrides

	EducationCenterKeywords []string
	TrainKeywords           []string
	MainTicketTypes         []string

	TransportSection string
	RulesSection     string
	ItinerarySection string
}

// DefaultVocabulary returns the keyword tables for the Taipei Zoo data set.
func DefaultVocabulary() *Vocabulary {
	return &Vocabulary{
		VisitorKeywords: map[models.QueryIntent][]string{
			models.IntentTicket: {
				"票價", "多少錢", "費用", "門票", "全票", "免票", "免費入場",
				"優待票", "票種", "票券", "要錢嗎", "入場費", "幾元",
				"學生票", "市民票", "團體票", "需要付費", "怎麼買票",
			},
			models.IntentHours: {
				"幾點", "開放時間", "開門", "關門", "幾點開", "幾點關",
				"開到幾點", "幾點到幾點", "開放到", "營業時間",
			},
			models.IntentClosure: {
				"公休", "休館", "休息", "有開嗎", "今天開嗎",
				"哪天休", "輪休", "閉館", "有沒有開",
			},
			models.IntentTransport: {
				"交通", "怎麼去", "停車", "捷運", "公車", "怎麼搭",
				"如何到", "怎麼到", "停車場", "公共運輸",
			},
			models.IntentRules: {
				"遊園須知", "注意事項", "禁止", "規定", "規則",
				"可以帶寵物", "能帶寵物", "可以帶狗", "能帶狗",
				"可以帶傘", "可以飲食", "可以吃東西",
			},
			models.IntentItinerary: {
				"建議行程", "怎麼逛", "怎麼玩", "先去哪", "從哪開始",
				"排行程", "遊園路線", "建議路線", "行程規劃",
			},
		},
		NearbyTriggers: []string{
			"附近", "旁邊", "接下來去哪", "下一站", "我在", "我現在在",
			"從這邊", "從這裡", "最近的館", "走去哪",
		},
		ItineraryTriggers: []string{"行程", "路線", "怎麼逛", "怎麼玩", "接下來"},
		RelativeDays: []RelativeDay{
			{"今天", 0}, {"今日", 0},
			{"昨天", -1}, {"昨日", -1},
			{"明天", 1}, {"明日", 1},
			{"後天", 2}, {"前天", -2},
		},
		VenueAliasRules: []AliasRule{
			{Contains: "穿山甲", Aliases: []string{"穿山甲館"}},
			{Contains: "大貓熊", Aliases: []string{"大貓熊館"}},
			{Contains: "鳥園", Aliases: []string{"鳥園"}},
			{Contains: "兩棲爬蟲", Aliases: []string{"爬蟲館", "兩棲館", "兩棲爬蟲館"}},
		},
		ClosureAliases: []KeywordTarget{
			{"穿山甲館", "熱帶雨林室內館（穿山甲館）"},
			{"大貓熊館", "大貓熊館"},
			{"新光特展館", "大貓熊館"},
		},
		HoursVenues: []KeywordTarget{
			{"遊客列車", "遊客列車"},
			{"列車", "遊客列車"},
			{"酷cool", "酷Cool節能屋"},
			{"節能屋", "酷Cool節能屋"},
			{"動物展示", "動物展示"},
		},
		HolidayClosures: visitor.HolidayOverrides{
			{Month: 4, Day: 7}:   {"教育中心", "大貓熊館"},
			{Month: 9, Day: 29}:  {"教育中心", "昆蟲館"},
			{Month: 10, Day: 27}: {"教育中心", "昆蟲館"},
		},
		EducationCenterKeywords: []string{"教育中心"},
		TrainKeywords:           []string{"遊客列車", "列車", "車資"},
		MainTicketTypes:         []string{"普通票", "臺北市民票", "優待票", "團體票"},

		TransportSection: "=== 交通及停車 ===",
		RulesSection:     "=== 遊園須知 ===",
		ItinerarySection: "=== 建議行程 ===",
	}
}
