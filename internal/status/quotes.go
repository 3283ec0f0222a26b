package status

var quotes = []string{
	"We are what we repeatedly do.",
	"Small steps every day.",
	"Discipline is choosing what you want most over what you want now.",
	"The body achieves what the mind believes.",
	"Motivation gets you started. Habit keeps you going.",
	"Consistency beats intensity.",
	"Rest is part of the work.",
	"Do the next right thing.",
	"A year from now you will wish you had started today.",
	"Strong body, quiet mind.",
	"Progress, not perfection.",
	"Win the morning, win the day.",
}

// QuoteOfTheDay is stable for a given day: the day number since the epoch
// indexes the quote list.
func QuoteOfTheDay(dayNumber int) string {
	i := dayNumber % len(quotes)
	if i < 0 {
		i += len(quotes)
	}
	return quotes[i]
}
