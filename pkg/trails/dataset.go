package trails

const parkURL = "https://www.alltrails.com/parks/us/washington/mount-rainier-national-park"

var defaultCategories = []CategoryLink{
	{Name: ParkCategory, URL: parkURL},
	{Name: CategoryDayHikes, URL: parkURL + "?activityType=hiking&difficulty=moderate&length=1-10"},
	{Name: CategoryWaterfallHikes, URL: parkURL + "?activityType=hiking&poiType=waterfall"},
	{Name: CategoryAlpineLakes, URL: parkURL + "?activityType=hiking&poiType=lake"},
	{Name: CategoryBackpacking, URL: parkURL + "?activityType=hiking&length=10-50"},
	{Name: CategoryFamilyFriendly, URL: parkURL + "?activityType=hiking&difficulty=easy&length=0-5"},
}

var defaultHikes = []Hike{
	{
		Name:          "Skyline Trail Loop",
		URL:           "https://www.alltrails.com/trail/us/washington/skyline-trail-loop",
		Difficulty:    "Moderate",
		Length:        "5.5 miles",
		ElevationGain: "1,700 ft",
		Type:          "Loop",
		Description:   "Popular trail with stunning views of Mount Rainier and wildflowers in summer",
		Category:      CategoryDayHikes,
	},
	{
		Name:          "Burroughs Mountain Trail",
		URL:           "https://www.alltrails.com/trail/us/washington/burroughs-mountain-trail",
		Difficulty:    "Hard",
		Length:        "9.4 miles",
		ElevationGain: "2,500 ft",
		Type:          "Out & Back",
		Description:   "Challenging hike with incredible views of Mount Rainier and surrounding peaks",
		Category:      CategoryDayHikes,
	},
	{
		Name:          "Naches Peak Loop",
		URL:           "https://www.alltrails.com/trail/us/washington/naches-peak-loop",
		Difficulty:    "Easy",
		Length:        "3.2 miles",
		ElevationGain: "600 ft",
		Type:          "Loop",
		Description:   "Easy loop with beautiful wildflowers and views of Mount Rainier",
		Category:      CategoryDayHikes,
	},
	{
		Name:          "Mount Fremont Lookout Trail",
		URL:           "https://www.alltrails.com/trail/us/washington/mount-fremont-lookout-trail",
		Difficulty:    "Moderate",
		Length:        "5.7 miles",
		ElevationGain: "1,200 ft",
		Type:          "Out & Back",
		Description:   "Historic fire lookout with panoramic views of Mount Rainier",
		Category:      CategoryDayHikes,
	},
	{
		Name:          "Tolmie Peak Trail",
		URL:           "https://www.alltrails.com/trail/us/washington/tolmie-peak-trail",
		Difficulty:    "Moderate",
		Length:        "6.5 miles",
		ElevationGain: "1,100 ft",
		Type:          "Out & Back",
		Description:   "Beautiful trail to a historic fire lookout with lake views",
		Category:      CategoryDayHikes,
	},
	{
		Name:          "Comet Falls Trail",
		URL:           "https://www.alltrails.com/trail/us/washington/comet-falls-trail",
		Difficulty:    "Moderate",
		Length:        "3.8 miles",
		ElevationGain: "1,250 ft",
		Type:          "Out & Back",
		Description:   "Spectacular waterfall hike with views of Mount Rainier",
		Category:      CategoryWaterfallHikes,
	},
	{
		Name:          "Narada Falls Trail",
		URL:           "https://www.alltrails.com/trail/us/washington/narada-falls-trail",
		Difficulty:    "Easy",
		Length:        "0.2 miles",
		ElevationGain: "50 ft",
		Type:          "Out & Back",
		Description:   "Short walk to a beautiful waterfall",
		Category:      CategoryWaterfallHikes,
	},
	{
		Name:          "Crystal Lakes Trail",
		URL:           "https://www.alltrails.com/trail/us/washington/crystal-lakes-trail",
		Difficulty:    "Hard",
		Length:        "6.2 miles",
		ElevationGain: "2,300 ft",
		Type:          "Out & Back",
		Description:   "Challenging hike to beautiful alpine lakes",
		Category:      CategoryAlpineLakes,
	},
	{
		Name:          "Reflection Lakes Trail",
		URL:           "https://www.alltrails.com/trail/us/washington/reflection-lakes-trail",
		Difficulty:    "Easy",
		Length:        "3.0 miles",
		ElevationGain: "200 ft",
		Type:          "Loop",
		Description:   "Easy lakeside trail with perfect Mount Rainier reflections",
		Category:      CategoryAlpineLakes,
	},
	{
		Name:          "Wonderland Trail",
		URL:           "https://www.alltrails.com/trail/us/washington/wonderland-trail",
		Difficulty:    "Hard",
		Length:        "93.0 miles",
		ElevationGain: "22,000 ft",
		Type:          "Loop",
		Description:   "Epic multi-day backpacking trail around Mount Rainier",
		Category:      CategoryBackpacking,
	},
	{
		Name:          "Northern Loop Trail",
		URL:           "https://www.alltrails.com/trail/us/washington/northern-loop-trail",
		Difficulty:    "Hard",
		Length:        "35.0 miles",
		ElevationGain: "8,000 ft",
		Type:          "Loop",
		Description:   "Challenging multi-day backpacking route in the northern part of the park",
		Category:      CategoryBackpacking,
	},
	{
		Name:          "Grove of the Patriarchs Trail",
		URL:           "https://www.alltrails.com/trail/us/washington/grove-of-the-patriarchs-trail",
		Difficulty:    "Easy",
		Length:        "1.1 miles",
		ElevationGain: "50 ft",
		Type:          "Loop",
		Description:   "Easy walk through ancient giant trees",
		Category:      CategoryFamilyFriendly,
	},
	{
		Name:          "Silver Falls Trail",
		URL:           "https://www.alltrails.com/trail/us/washington/silver-falls-trail",
		Difficulty:    "Easy",
		Length:        "3.0 miles",
		ElevationGain: "400 ft",
		Type:          "Loop",
		Description:   "Family-friendly trail to a beautiful waterfall",
		Category:      CategoryFamilyFriendly,
	},
}
