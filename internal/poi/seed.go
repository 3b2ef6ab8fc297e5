// SPDX-License-Identifier: MIT

package poi

import "github.com/tripstep/tripstep/internal/domain"

// SeedPOIs is the built-in demo dataset served by the default in-memory
// store. Coordinates are real; visit hours and prices are nominal.
func SeedPOIs() []domain.POI {
	return []domain.POI{
		// Suzhou
		{ID: "su-001", Name: "拙政园", Lat: 31.3232, Lon: 120.6290, Category: domain.CategoryAttraction,
			Address: "苏州市姑苏区东北街178号", City: "Suzhou", AvgVisitHours: 2.5, TicketPrice: 70, Rating: 4.7, ReviewCount: 23000},
		{ID: "su-002", Name: "苏州博物馆", Lat: 31.3228, Lon: 120.6262, Category: domain.CategoryAttraction,
			Address: "苏州市姑苏区东北街204号", City: "Suzhou", AvgVisitHours: 2, TicketPrice: 0, Rating: 4.6, ReviewCount: 15000},
		{ID: "su-003", Name: "虎丘", Lat: 31.3396, Lon: 120.5768, Category: domain.CategoryAttraction,
			Address: "苏州市虎丘区虎丘山门内8号", City: "Suzhou", AvgVisitHours: 2, TicketPrice: 60, Rating: 4.4, ReviewCount: 9000},
		{ID: "su-004", Name: "平江路历史街区", Lat: 31.3180, Lon: 120.6330, Category: domain.CategoryShopping,
			Address: "苏州市姑苏区平江路", City: "Suzhou", AvgVisitHours: 1.5, TicketPrice: 0, Rating: 4.5, ReviewCount: 12000},
		{ID: "su-005", Name: "山塘街", Lat: 31.3226, Lon: 120.6038, Category: domain.CategoryShopping,
			Address: "苏州市姑苏区古城山塘街", City: "Suzhou", AvgVisitHours: 1.5, TicketPrice: 0, Rating: 4.4, ReviewCount: 11000},
		{ID: "su-006", Name: "松鹤楼", Lat: 31.3090, Lon: 120.6270, Category: domain.CategoryRestaurant,
			Address: "苏州市姑苏区太监弄72号", City: "Suzhou", AvgVisitHours: 1, TicketPrice: 0, Rating: 4.5, ReviewCount: 8000},
		{ID: "su-007", Name: "金鸡湖景区", Lat: 31.3089, Lon: 120.6770, Category: domain.CategoryAttraction,
			Address: "苏州市工业园区金鸡湖", City: "Suzhou", AvgVisitHours: 2, TicketPrice: 0, Rating: 4.3, ReviewCount: 7000},
		{ID: "su-008", Name: "苏州火车站", Lat: 31.3012, Lon: 120.5242, Category: domain.CategoryTransportHub,
			Address: "苏州市姑苏区车站路27号", City: "Suzhou", AvgVisitHours: 0.5, TicketPrice: 0, Rating: 4.0, ReviewCount: 3000},

		// Xiamen
		{ID: "xm-001", Name: "鼓浪屿", Lat: 24.4478, Lon: 118.0689, Category: domain.CategoryAttraction,
			Address: "厦门市思明区鼓浪屿", City: "Xiamen", AvgVisitHours: 4, TicketPrice: 35, Rating: 4.6, ReviewCount: 45000},
		{ID: "xm-002", Name: "厦门大学", Lat: 24.4365, Lon: 118.0967, Category: domain.CategoryAttraction,
			Address: "厦门市思明区思明南路422号", City: "Xiamen", AvgVisitHours: 2, TicketPrice: 0, Rating: 4.5, ReviewCount: 20000},
		{ID: "xm-003", Name: "曾厝垵", Lat: 24.4311, Lon: 118.1130, Category: domain.CategoryShopping,
			Address: "厦门市思明区曾厝垵", City: "Xiamen", AvgVisitHours: 2, TicketPrice: 0, Rating: 4.2, ReviewCount: 18000},
		{ID: "xm-004", Name: "中山路步行街", Lat: 24.4560, Lon: 118.0819, Category: domain.CategoryShopping,
			Address: "厦门市思明区中山路", City: "Xiamen", AvgVisitHours: 1.5, TicketPrice: 0, Rating: 4.3, ReviewCount: 16000},
		{ID: "xm-005", Name: "环岛路", Lat: 24.4420, Lon: 118.1180, Category: domain.CategoryAttraction,
			Address: "厦门市思明区环岛路", City: "Xiamen", AvgVisitHours: 2, TicketPrice: 0, Rating: 4.5, ReviewCount: 14000},
		{ID: "xm-006", Name: "厦门站", Lat: 24.4683, Lon: 118.1222, Category: domain.CategoryTransportHub,
			Address: "厦门市思明区厦禾路900号", City: "Xiamen", AvgVisitHours: 0.5, TicketPrice: 0, Rating: 4.0, ReviewCount: 2500},
	}
}
