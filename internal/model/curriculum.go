package model

// DefaultCurriculum returns the seeded farmer verification curriculum:
// 4 modules of 3 videos each. Video ids are stable across reseeds of the same
// curriculum so existing progress snapshots keep resolving.
func DefaultCurriculum() []Module {
	return []Module{
		{
			Title:       "Organic Farming Basics",
			Description: "Learn the fundamentals of organic farming",
			Order:       1,
			Videos: []Video{
				{VideoID: "org_1_1", Title: "Introduction to Organic Farming", Description: "Basic principles and benefits", URL: "/videos/organic/intro.mp4", Duration: 300, Order: 1},
				{VideoID: "org_1_2", Title: "Soil Management", Description: "Organic soil preparation techniques", URL: "/videos/organic/soil.mp4", Duration: 360, Order: 2},
				{VideoID: "org_1_3", Title: "Natural Pest Control", Description: "Managing pests without chemicals", URL: "/videos/organic/pest.mp4", Duration: 420, Order: 3},
			},
		},
		{
			Title:       "Water Management",
			Description: "Efficient water usage techniques",
			Order:       2,
			Videos: []Video{
				{VideoID: "water_2_1", Title: "Water Conservation", Description: "Basic water saving techniques", URL: "/videos/water/conservation.mp4", Duration: 300, Order: 1},
				{VideoID: "water_2_2", Title: "Irrigation Systems", Description: "Modern irrigation methods", URL: "/videos/water/irrigation.mp4", Duration: 360, Order: 2},
				{VideoID: "water_2_3", Title: "Rainwater Harvesting", Description: "Collecting and using rainwater", URL: "/videos/water/rainwater.mp4", Duration: 420, Order: 3},
			},
		},
		{
			Title:       "Sustainable Practices",
			Description: "Long-term sustainable farming methods",
			Order:       3,
			Videos: []Video{
				{VideoID: "sust_3_1", Title: "Crop Rotation", Description: "Benefits and implementation", URL: "/videos/sustainable/rotation.mp4", Duration: 300, Order: 1},
				{VideoID: "sust_3_2", Title: "Composting", Description: "Creating and using compost", URL: "/videos/sustainable/compost.mp4", Duration: 360, Order: 2},
				{VideoID: "sust_3_3", Title: "Natural Fertilizers", Description: "Making organic fertilizers", URL: "/videos/sustainable/fertilizer.mp4", Duration: 420, Order: 3},
			},
		},
		{
			Title:       "Modern Farming",
			Description: "Modern agricultural techniques",
			Order:       4,
			Videos: []Video{
				{VideoID: "mod_4_1", Title: "Smart Farming", Description: "Technology in agriculture", URL: "/videos/modern/smart.mp4", Duration: 300, Order: 1},
				{VideoID: "mod_4_2", Title: "Data-Driven Decisions", Description: "Using data for better yields", URL: "/videos/modern/data.mp4", Duration: 360, Order: 2},
				{VideoID: "mod_4_3", Title: "Future of Farming", Description: "Emerging agricultural trends", URL: "/videos/modern/future.mp4", Duration: 420, Order: 3},
			},
		},
	}
}
