package reviews

// Review is one customer review row. Rows are append-only; nothing in this
// system updates or deletes them.
type Review struct {
	Date        string   `json:"date"`
	SkuInfo     string   `json:"skuInfo,omitempty"`
	Logistics   string   `json:"logistics,omitempty"`
	VoteCount   int      `json:"voteCount"`
	Translation string   `json:"translation,omitempty"`
	IsAnonymous bool     `json:"isAnonymous"`
	Images      []string `json:"images,omitempty"`
	Rating      int      `json:"rating"`
	Name        string   `json:"name"`
	Avatar      string   `json:"avatar,omitempty"`
	Country     string   `json:"country,omitempty"`
	Content     string   `json:"content"`
}

// AverageRating is the arithmetic mean over every row, zero when empty.
// Unparseable ratings already defaulted to 0 at parse time and drag the
// mean down rather than being excluded.
func AverageRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, review := range reviews {
		sum += review.Rating
	}
	return float64(sum) / float64(len(reviews))
}

// RatingDistribution counts reviews per star 1..5. Out-of-range ratings land
// in no bucket but still count toward the caller's total.
func RatingDistribution(reviews []Review) map[int]int {
	distribution := map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	for _, review := range reviews {
		if review.Rating >= 1 && review.Rating <= 5 {
			distribution[review.Rating]++
		}
	}
	return distribution
}
