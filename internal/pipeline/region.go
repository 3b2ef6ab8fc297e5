// SPDX-License-Identifier: MIT

package pipeline

import (
	"strings"

	"github.com/tripstep/tripstep/internal/domain"
)

// RegionOther is the label for POIs no keyword table entry matches.
const RegionOther = "其他"

// regionKeywords maps name/address substrings to coarse region labels.
// Name is checked before address; first hit wins, table order is fixed.
var regionKeywords = []struct {
	token  string
	region string
}{
	// Xiamen
	{"鼓浪屿", "鼓浪屿"},
	{"厦大", "厦大"},
	{"厦门大学", "厦大"},
	{"曾厝垵", "曾厝垵"},
	{"中山路", "中山路"},
	{"环岛路", "环岛路"},
	// Suzhou
	{"姑苏", "姑苏"},
	{"虎丘", "虎丘"},
	{"金鸡湖", "金鸡湖"},
	{"平江路", "平江路"},
	{"山塘街", "山塘街"},
	// Hangzhou
	{"西湖", "西湖"},
	{"灵隐", "灵隐"},
	{"河坊街", "河坊街"},
	{"钱塘江", "钱塘江"},
	// Shanghai
	{"外滩", "外滩"},
	{"陆家嘴", "陆家嘴"},
	{"南京路", "南京路"},
	{"豫园", "豫园"},
}

// RegionOf derives the coarse region label of a POI from its name, falling
// back to its address, otherwise RegionOther.
func RegionOf(p domain.POI) string {
	for _, kw := range regionKeywords {
		if strings.Contains(p.Name, kw.token) {
			return kw.region
		}
	}
	for _, kw := range regionKeywords {
		if strings.Contains(p.Address, kw.token) {
			return kw.region
		}
	}
	return RegionOther
}

// famousLandmarks are name tokens that earn the continuity bump.
var famousLandmarks = []string{
	"厦大", "鼓浪屿", "环岛路", "曾厝垵", "中山路",
	"拙政园", "虎丘", "平江路", "姑苏",
}

// IsFamousLandmark reports whether the POI name carries a landmark token.
func IsFamousLandmark(p domain.POI) bool {
	for _, tok := range famousLandmarks {
		if strings.Contains(p.Name, tok) {
			return true
		}
	}
	return false
}
