package searchapi

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"strings"

	"github.com/light-bringer/staysearch-service/internal/app/search/domain"
)

// DemoCount is the number of sample listings generated per search.
const DemoCount = 12

var (
	demoNames = []string{
		"The Grand Palace", "Ocean View Resort", "Mountain Retreat",
		"City Center Hotel", "Luxury Suites", "Beach Paradise",
		"Heritage Inn", "Modern Plaza", "Sunset Villa",
		"Garden Resort", "Royal Hotel", "Comfort Stay",
	}
	demoImages = []string{
		"https://images.unsplash.com/photo-1566073771259-6a8506099945?w=600",
		"https://images.unsplash.com/photo-1520250497591-112f2f40a3f4?w=600",
		"https://images.unsplash.com/photo-1571896349842-33c89424de2d?w=600",
		"https://images.unsplash.com/photo-1582719508461-905c673771fd?w=600",
		"https://images.unsplash.com/photo-1564501049412-61c2a3083791?w=600",
		"https://images.unsplash.com/photo-1551882547-ff40c63fe5fa?w=600",
	}
	demoAmenities = []string{"wifi", "pool", "parking", "restaurant"}
	demoMealPlans = []string{"nomeal", "breakfast", "halfboard"}
)

// DemoListings generates sample listings for a destination.
// The same destination always yields the same listings.
func DemoListings(destination string, count int) []domain.Listing {
	h := fnv.New64a()
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(destination))))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	listings := make([]domain.Listing, 0, count)
	for i := 0; i < count; i++ {
		name := demoNames[i%len(demoNames)]
		if i >= len(demoNames) {
			name = fmt.Sprintf("%s %d", name, i/len(demoNames)+1)
		}

		listings = append(listings, domain.Listing{
			ID:            fmt.Sprintf("demo_hotel_%d", i+1),
			Name:          name,
			StarRating:    rng.Intn(3) + 3,
			GuestRating:   clampRating(rng.Float64()*2 + 3),
			ReviewCount:   rng.Intn(500) + 50,
			NightlyPrice:  domain.NewMoneyFromInt(int64(rng.Intn(20000) + 2000)),
			OriginalPrice: domain.NewMoneyFromInt(int64(rng.Intn(5000) + 25000)),
			Currency:      "INR",
			Amenities:     append([]string(nil), demoAmenities[:rng.Intn(len(demoAmenities))+1]...),
			MealPlan:      demoMealPlans[rng.Intn(len(demoMealPlans))],
			Address:       destination + ", India",
			ImageURL:      demoImages[i%len(demoImages)],
			Refundable:    rng.Intn(2) == 0,
		})
	}
	return listings
}
