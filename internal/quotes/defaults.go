package quotes

// DefaultQuotes seeds the durable record when it is missing or empty.
var DefaultQuotes = []string{
	"Cleanliness is next to godliness!",
	"Be the change you wish to see in the world!",
	"Small actions lead to big impacts!",
	"Keep Earth clean and green!",
	"Reduce, Reuse, Recycle - the 3 Rs of sustainability!",
	"Every piece of waste matters!",
	"Thank you for caring about our planet!",
	"You make a difference every day!",
	"Save Earth, Save our future!",
	"Together we can create a cleaner tomorrow!",
	"Waste segregation is the first step to recycling!",
	"Your small effort creates a huge impact!",
	"Protect nature, it's our only home!",
	"Clean environment, healthy life!",
	"Be a warrior, not a worrier for Earth!",
	"Think green, act green, live green!",
	"The Earth is what we all have in common!",
	"Every day is Earth Day!",
	"Respect nature, respect life!",
	"Plant trees, they give us life!",
}
