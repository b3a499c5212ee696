package scraper

import "strings"

// InferCategory derives a category from URL keywords for retailers without
// structured category data. Garment keywords take priority in the order
// dress > bottoms > outerwear > shoes > tops, qualified by a gender segment
// when the URL carries one.
func InferCategory(rawURL string) string {
	u := strings.ToLower(rawURL)

	gender := ""
	switch {
	case strings.Contains(u, "/women") || strings.Contains(u, "womens-") || strings.Contains(u, "/ladies"):
		gender = "womens"
	case strings.Contains(u, "/men") || strings.Contains(u, "mens-"):
		gender = "mens"
	}

	qualify := func(base string) string {
		if gender == "" {
			return base
		}
		return gender + "-" + base
	}

	switch {
	case strings.Contains(u, "dress"):
		return "dresses"
	case strings.Contains(u, "jeans") || strings.Contains(u, "pants") || strings.Contains(u, "trousers"):
		return qualify("bottoms")
	case strings.Contains(u, "jacket") || strings.Contains(u, "coat"):
		return qualify("outerwear")
	case strings.Contains(u, "shoe") || strings.Contains(u, "sneaker"):
		return qualify("shoes")
	case strings.Contains(u, "t-shirt") || strings.Contains(u, "tshirt") || strings.Contains(u, "tops"):
		return qualify("tops")
	}
	return "other"
}
